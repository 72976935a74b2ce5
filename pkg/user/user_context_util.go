package user

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

// UserKey carries the authenticated User through request contexts.
const UserKey contextKey = "user"

var ErrNoUser = errors.New("user not found")

// WithUser returns a context carrying the given user. The request middleware
// attaches it after resolving the X-User-Id header.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// CurrentUser returns the user attached to the context, or ErrNoUser when the
// request never went through the user middleware.
func CurrentUser(ctx context.Context) (User, error) {
	u, ok := ctx.Value(UserKey).(User)
	if !ok {
		log.Trace("no user attached to context")
		return User{}, ErrNoUser
	}
	return u, nil
}

// CurrentId is a shorthand for CurrentUser when only the id matters.
func CurrentId(ctx context.Context) (int, error) {
	u, err := CurrentUser(ctx)
	if err != nil {
		return 0, err
	}
	return u.Id, nil
}
