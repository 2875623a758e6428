package repository

import (
	"context"

	"github.com/iliyamo/rental-marketplace/internal/model"
)

// MessagesFor returns every message userID sent or received, in the
// order they were stored.
func (s *Store) MessagesFor(ctx context.Context, userID string) ([]model.Message, error) {
	if err := s.wait(ctx, "listMessages"); err != nil {
		return nil, err
	}
	msgs, err := loadCollection[model.Message](ctx, s.kv, KeyMessages)
	if err != nil {
		return nil, err
	}
	out := []model.Message{}
	for _, m := range msgs {
		if m.Involves(userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

// SendMessage appends a message from sender to receiverID.  The receiver
// does not have to exist; its name is then recorded as UnknownUserName.
func (s *Store) SendMessage(ctx context.Context, sender model.User, receiverID, text string) (model.Message, error) {
	if err := s.wait(ctx, "sendMessage"); err != nil {
		return model.Message{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := loadCollection[model.User](ctx, s.kv, KeyUsers)
	if err != nil {
		return model.Message{}, err
	}
	receiverName := UnknownUserName
	for _, u := range users {
		if u.ID == receiverID {
			receiverName = u.Name
			break
		}
	}

	msgs, err := loadCollection[model.Message](ctx, s.kv, KeyMessages)
	if err != nil {
		return model.Message{}, err
	}
	m := model.Message{
		ID:           s.newID(),
		SenderID:     sender.ID,
		SenderName:   sender.Name,
		ReceiverID:   receiverID,
		ReceiverName: receiverName,
		Text:         text,
		Timestamp:    s.now(),
	}
	if err := saveCollection(ctx, s.kv, KeyMessages, append(msgs, m)); err != nil {
		return model.Message{}, err
	}
	return m, nil
}
