// internal/app/sync/session/session.go

// Package session carries the signed-in identity into the sync layer as
// an explicit value. Handlers build a Handle from the HTTP session and
// pass it down; nothing below the HTTP layer reads cookies or context.
package session

import (
	"errors"

	"github.com/dalemusser/rolehub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrBadUserID = errors.New("session user id is not a valid object id")

// Handle is the read-only identity a live view is opened under. Admin is
// the value checked at connection time; the view refreshes it from the
// admin-set watch afterward.
type Handle struct {
	UserID primitive.ObjectID
	Name   string
	Email  string
	Admin  bool
}

// FromSessionUser converts the cookie-backed session user into a Handle.
func FromSessionUser(su auth.SessionUser) (Handle, error) {
	oid, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		return Handle{}, ErrBadUserID
	}
	return Handle{
		UserID: oid,
		Name:   su.Name,
		Email:  su.Email,
		Admin:  su.Admin,
	}, nil
}
