package auth

import (
	"github.com/gofiber/fiber/v2"

	"cbac-backend/internal/metadata"
)

const userLocalsKey = "user"

// UserLoader resolves the user of a request. It returns a nil user, not an
// error, when the request carries no identity.
type UserLoader func(c *fiber.Ctx) (*metadata.UserContext, error)

// UserMiddleware returns a Fiber middleware that runs the loader and sets
// the UserContext on the request. Requests without a user pass through;
// guards decide what they may reach.
func UserMiddleware(load UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := load(c)
		if err != nil {
			return err
		}
		if user != nil {
			SetUser(c, user)
		}
		return c.Next()
	}
}

// SetUser stores the UserContext on a Fiber context.
func SetUser(c *fiber.Ctx, user *metadata.UserContext) {
	c.Locals(userLocalsKey, user)
}

// GetUser extracts the UserContext from a Fiber context. Anything other
// than a non-nil *UserContext is reported as no user.
func GetUser(c *fiber.Ctx) *metadata.UserContext {
	user, _ := c.Locals(userLocalsKey).(*metadata.UserContext)
	return user
}

// StaticUsers returns a loader that picks the user whose ID is given in the
// header from a fixed list. It performs no credential check and is meant
// for local development.
func StaticUsers(users []*metadata.UserContext, header string) UserLoader {
	byID := make(map[string]*metadata.UserContext, len(users))
	for _, u := range users {
		if u != nil && u.ID != "" {
			byID[u.ID] = u
		}
	}
	return func(c *fiber.Ctx) (*metadata.UserContext, error) {
		id := c.Get(header)
		if id == "" {
			return nil, nil
		}
		return byID[id], nil
	}
}
