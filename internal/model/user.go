package model

// Role is the account role that decides which dashboard and which
// operations a session may use.  Roles are stored on the user record
// and are never taken from caller input once an account exists.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleUser:
		return true
	}
	return false
}

// User represents an account as persisted in the users collection.
// Users are created on the first login with an unseen email and are
// never deleted.
//
// Fields:
//  ID        – opaque identifier assigned at registration.
//  Name      – display name; defaults to the local part of the email.
//  Email     – normalized (trimmed, lower-cased) email address.
//  Role      – admin, owner or user.
//  Favorites – ids of favorited properties, without duplicates.
//  IsBlocked – set by an admin; blocked accounts cannot log in.
type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Role      Role     `json:"role"`
	Favorites []string `json:"favorites"`
	IsBlocked bool     `json:"isBlocked"`
}

// HasFavorite reports whether propertyID is in the user's favorites.
func (u User) HasFavorite(propertyID string) bool {
	for _, id := range u.Favorites {
		if id == propertyID {
			return true
		}
	}
	return false
}
