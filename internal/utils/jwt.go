package utils // package utils provides helpers for issuing session tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/rental-marketplace/internal/model"
)

// AccessToken is a signed JWT standing for one signed-in session.  Token
// goes into the Authorization header as a Bearer value; Exp is when it
// stops being accepted.
type AccessToken struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"exp"`
}

// NewAccessToken signs an HS256 JWT for u.  The subject is the user id
// and the role claim carries the role at the time of signing, so a role
// or block change only takes effect after the client refreshes.
func NewAccessToken(secret string, u model.User, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": string(u.Role),
		"name": u.Name,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
