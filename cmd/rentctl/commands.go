package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/iliyamo/rental-marketplace/internal/chat"
	"github.com/iliyamo/rental-marketplace/internal/model"
	"github.com/iliyamo/rental-marketplace/internal/repository"
	"github.com/iliyamo/rental-marketplace/internal/session"
)

const usage = `usage: rentctl <command> [flags] [args]

session:
  login [-role admin|owner|user] <email>
  logout | whoami | refresh

browse:
  properties [-location L] [-type T] [-q words]
  show <propertyId>
  favorite <propertyId>
  book [-date YYYY-MM-DD] <propertyId>
  bookings

owner:
  add-property -title T -type T -rent N [-location L] [-desc D] [-amenities a,b] [-image URL]
  owner-bookings
  set-booking <bookingId> approved|rejected

admin:
  users [query]
  set-property <propertyId> pending|approved|rejected
  block <userId>

both:
  stats

messages:
  send <userId> <text...>
  inbox
  chat [-interval 3s] <userId>
`

var errUsage = errors.New("invalid usage")

type app struct {
	store *repository.Store
	sess  *session.Manager
	out   io.Writer

	// pollInterval overrides chat's default interval
	pollInterval time.Duration
}

type command func(ctx context.Context, args []string) error

func (a *app) commands() map[string]command {
	return map[string]command{
		"login":          a.login,
		"logout":         a.logout,
		"whoami":         a.whoami,
		"refresh":        a.refresh,
		"properties":     a.properties,
		"show":           a.show,
		"favorite":       a.favorite,
		"book":           a.book,
		"bookings":       a.bookings,
		"add-property":   a.addProperty,
		"owner-bookings": a.ownerBookings,
		"set-booking":    a.setBooking,
		"stats":          a.stats,
		"users":          a.users,
		"set-property":   a.setProperty,
		"block":          a.block,
		"send":           a.send,
		"inbox":          a.inbox,
		"chat":           a.chat,
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" {
		fmt.Fprint(a.out, usage)
		return nil
	}
	cmd, ok := a.commands()[args[0]]
	if !ok {
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
	err := cmd(ctx, args[1:])
	if errors.Is(err, errUsage) {
		fmt.Fprint(a.out, usage)
	}
	return err
}

// requireRole returns the signed-in user when their role is one of roles.
func (a *app) requireRole(roles ...model.Role) (model.User, error) {
	u, ok := a.sess.Current()
	if !ok {
		return model.User{}, errors.New("not signed in; run: rentctl login <email>")
	}
	if len(roles) == 0 {
		return u, nil
	}
	for _, r := range roles {
		if u.Role == r {
			return u, nil
		}
	}
	return model.User{}, fmt.Errorf("this command needs role %v; you are %s", roles, u.Role)
}

func parseFlags(fs *flag.FlagSet, args []string, nArgs int) ([]string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	if nArgs >= 0 && fs.NArg() < nArgs {
		return nil, errUsage
	}
	return fs.Args(), nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	role := fs.String("role", "", "role for a new account")
	rest, err := parseFlags(fs, args, 1)
	if err != nil {
		return err
	}
	u, err := a.sess.Login(ctx, rest[0], model.Role(strings.ToLower(*role)))
	if errors.Is(err, repository.ErrBlocked) {
		return errors.New(repository.BlockedMessage)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s <%s> (%s)\n", u.Name, u.Email, u.Role)
	return nil
}

func (a *app) logout(ctx context.Context, _ []string) error {
	if err := a.sess.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "signed out")
	return nil
}

func (a *app) whoami(_ context.Context, _ []string) error {
	u, ok := a.sess.Current()
	if !ok {
		fmt.Fprintln(a.out, "not signed in")
		return nil
	}
	a.printUser(u)
	return nil
}

func (a *app) refresh(ctx context.Context, _ []string) error {
	u, ok, err := a.sess.Refresh(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "not signed in")
		return nil
	}
	a.printUser(u)
	return nil
}

func (a *app) printUser(u model.User) {
	fmt.Fprintf(a.out, "%s  %s <%s>  role=%s  favorites=%d", u.ID, u.Name, u.Email, u.Role, len(u.Favorites))
	if u.IsBlocked {
		fmt.Fprint(a.out, "  BLOCKED")
	}
	fmt.Fprintln(a.out)
}

func (a *app) properties(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("properties", flag.ContinueOnError)
	loc := fs.String("location", "", "location substring")
	typ := fs.String("type", "", "1BHK, 2BHK, Villa or Apartment")
	q := fs.String("q", "", "keywords")
	if _, err := parseFlags(fs, args, 0); err != nil {
		return err
	}
	f := repository.PropertyFilter{Location: *loc, Type: model.PropertyType(*typ), Query: *q, OnlyApproved: true}
	if f.Type != "" && !f.Type.Valid() {
		return fmt.Errorf("unknown type %q", *typ)
	}
	props, err := a.store.SearchProperties(ctx, f)
	if err != nil {
		return err
	}
	a.printProperties(props)
	return nil
}

func (a *app) printProperties(props []model.Property) {
	if len(props) == 0 {
		fmt.Fprintln(a.out, "no properties")
		return
	}
	fav := map[string]bool{}
	if u, ok := a.sess.Current(); ok {
		for _, id := range u.Favorites {
			fav[id] = true
		}
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tRENT\tLOCATION\tSTATUS\t")
	for _, p := range props {
		title := p.Title
		if fav[p.ID] {
			title = "* " + title
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f\t%s\t%s\t\n", p.ID, title, p.Type, p.Rent, p.Location, p.Status)
	}
	_ = tw.Flush()
}

func (a *app) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	p, err := a.store.GetPropertyByID(ctx, args[0])
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("property %s not found", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n%s, %s, %.0f/month, %s\nowner: %s\namenities: %s\n\n%s\n",
		p.Title, p.ID, p.Type, p.Location, p.Rent, p.Status, p.OwnerName,
		strings.Join(p.Amenities, ", "), p.Description)
	return nil
}

func (a *app) favorite(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	u, err := a.requireRole()
	if err != nil {
		return err
	}
	u, err = a.store.ToggleFavorite(ctx, u.ID, args[0])
	if err != nil {
		return err
	}
	// keep the session snapshot in step with the toggle
	if _, _, err := a.sess.Refresh(ctx); err != nil {
		return err
	}
	if u.HasFavorite(args[0]) {
		fmt.Fprintf(a.out, "added %s to favorites\n", args[0])
	} else {
		fmt.Fprintf(a.out, "removed %s from favorites\n", args[0])
	}
	return nil
}

func (a *app) book(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("book", flag.ContinueOnError)
	date := fs.String("date", "", "move-in date, YYYY-MM-DD")
	rest, err := parseFlags(fs, args, 1)
	if err != nil {
		return err
	}
	u, err := a.requireRole(model.RoleUser)
	if err != nil {
		return err
	}
	when := time.Now().UTC()
	if *date != "" {
		if when, err = time.Parse("2006-01-02", *date); err != nil {
			return fmt.Errorf("invalid date %q", *date)
		}
	}
	p, err := a.store.GetPropertyByID(ctx, rest[0])
	if err != nil {
		return err
	}
	b, err := a.store.CreateBooking(ctx, p, u, when)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "requested %s for %s (booking %s, %s)\n", p.Title, b.Date.Format("2006-01-02"), b.ID, b.Status)
	return nil
}

func (a *app) bookings(ctx context.Context, _ []string) error {
	u, err := a.requireRole()
	if err != nil {
		return err
	}
	bs, err := a.store.BookingsByUser(ctx, u.ID)
	if err != nil {
		return err
	}
	a.printBookings(bs)
	return nil
}

func (a *app) printBookings(bs []model.Booking) {
	if len(bs) == 0 {
		fmt.Fprintln(a.out, "no bookings")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPROPERTY\tTENANT\tDATE\tSTATUS\t")
	for _, b := range bs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", b.ID, b.PropertyTitle, b.UserName, b.Date.Format("2006-01-02"), b.Status)
	}
	_ = tw.Flush()
}

func (a *app) addProperty(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-property", flag.ContinueOnError)
	title := fs.String("title", "", "")
	typ := fs.String("type", "", "")
	rent := fs.Float64("rent", 0, "")
	loc := fs.String("location", "", "")
	desc := fs.String("desc", "", "")
	amen := fs.String("amenities", "", "comma separated")
	image := fs.String("image", "", "")
	if _, err := parseFlags(fs, args, 0); err != nil {
		return err
	}
	owner, err := a.requireRole(model.RoleOwner)
	if err != nil {
		return err
	}
	in := model.Property{
		Title:       strings.TrimSpace(*title),
		Type:        model.PropertyType(*typ),
		Rent:        *rent,
		Location:    strings.TrimSpace(*loc),
		Description: strings.TrimSpace(*desc),
		Image:       strings.TrimSpace(*image),
		Amenities:   splitList(*amen),
	}
	switch {
	case in.Title == "":
		return errors.New("-title is required")
	case !in.Type.Valid():
		return fmt.Errorf("-type must be one of 1BHK, 2BHK, Villa, Apartment")
	case in.Rent <= 0:
		return errors.New("-rent must be positive")
	}
	p, err := a.store.CreateProperty(ctx, in, owner)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "listed %s as %s; it is visible once an admin approves it\n", p.ID, p.Status)
	return nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (a *app) ownerBookings(ctx context.Context, _ []string) error {
	u, err := a.requireRole(model.RoleOwner)
	if err != nil {
		return err
	}
	bs, err := a.store.BookingsByOwner(ctx, u.ID)
	if err != nil {
		return err
	}
	a.printBookings(bs)
	return nil
}

func (a *app) setBooking(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	status := model.BookingStatus(args[1])
	if status != model.BookingApproved && status != model.BookingRejected {
		return errUsage
	}
	u, err := a.requireRole(model.RoleOwner)
	if err != nil {
		return err
	}
	b, err := a.store.GetBooking(ctx, args[0])
	if err == nil && b.OwnerID != u.ID {
		return errors.New("that booking is for another owner's property")
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err := a.store.SetBookingStatus(ctx, args[0], status); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "booking %s %s\n", args[0], status)
	return nil
}

func (a *app) stats(ctx context.Context, _ []string) error {
	u, err := a.requireRole(model.RoleAdmin, model.RoleOwner)
	if err != nil {
		return err
	}
	if u.Role == model.RoleOwner {
		st, err := a.store.OwnerStats(ctx, u.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "my properties: %d\nrequests: %d\nactive tenants: %d\n",
			st.MyProperties, st.TotalRequests, st.ActiveTenants)
		return nil
	}
	st, err := a.store.AdminStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "users: %d\nowners: %d\nproperties: %d\npending: %d\nbookings: %d\n",
		st.TotalUsers, st.TotalOwners, st.TotalProperties, st.PendingProperties, st.TotalBookings)
	return nil
}

func (a *app) users(ctx context.Context, args []string) error {
	if _, err := a.requireRole(model.RoleAdmin); err != nil {
		return err
	}
	us, err := a.store.SearchUsers(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tBLOCKED\t")
	for _, u := range us {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", u.ID, u.Name, u.Email, u.Role, strconv.FormatBool(u.IsBlocked))
	}
	return tw.Flush()
}

func (a *app) setProperty(ctx context.Context, args []string) error {
	if len(args) != 2 || !model.PropertyStatus(args[1]).Valid() {
		return errUsage
	}
	if _, err := a.requireRole(model.RoleAdmin); err != nil {
		return err
	}
	if err := a.store.SetPropertyStatus(ctx, args[0], model.PropertyStatus(args[1])); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "property %s %s\n", args[0], args[1])
	return nil
}

func (a *app) block(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if _, err := a.requireRole(model.RoleAdmin); err != nil {
		return err
	}
	u, err := a.store.ToggleUserBlocked(ctx, args[0])
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("user %s not found", args[0])
	}
	if err != nil {
		return err
	}
	state := "unblocked"
	if u.IsBlocked {
		state = "blocked"
	}
	fmt.Fprintf(a.out, "%s (%s) %s\n", u.Name, u.ID, state)
	return nil
}

func (a *app) send(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if text == "" {
		return errUsage
	}
	u, err := a.requireRole()
	if err != nil {
		return err
	}
	m, err := a.store.SendMessage(ctx, u, args[0], text)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "sent to %s\n", m.ReceiverName)
	return nil
}

func (a *app) inbox(ctx context.Context, _ []string) error {
	u, err := a.requireRole()
	if err != nil {
		return err
	}
	msgs, err := a.store.MessagesFor(ctx, u.ID)
	if err != nil {
		return err
	}
	convs := chat.Conversations(msgs, u.ID)
	if len(convs) == 0 {
		fmt.Fprintln(a.out, "no conversations")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, c := range convs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", c.UserID, c.Name, c.LastMessage.Timestamp.Local().Format("Jan 2 15:04"), c.LastMessage.Text)
	}
	return tw.Flush()
}

// chat prints the thread with one user and reprints it whenever a poll
// finds new messages, until interrupted.
func (a *app) chat(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	interval := fs.Duration("interval", chat.DefaultInterval, "poll interval")
	rest, err := parseFlags(fs, args, 1)
	if err != nil {
		return err
	}
	u, err := a.requireRole()
	if err != nil {
		return err
	}
	if a.pollInterval > 0 {
		*interval = a.pollInterval
	}
	other := rest[0]
	seen := map[string]bool{}

	p := &chat.Poller{
		Interval: *interval,
		Fetch:    func(ctx context.Context) ([]model.Message, error) { return a.store.MessagesFor(ctx, u.ID) },
		OnUpdate: func(msgs []model.Message) {
			for _, m := range chat.Thread(msgs, u.ID, other) {
				if seen[m.ID] {
					continue
				}
				seen[m.ID] = true
				who := m.SenderName
				if m.SenderID == u.ID {
					who = "you"
				}
				fmt.Fprintf(a.out, "[%s] %s: %s\n", m.Timestamp.Local().Format("15:04"), who, m.Text)
			}
		},
	}
	return p.Run(ctx)
}
