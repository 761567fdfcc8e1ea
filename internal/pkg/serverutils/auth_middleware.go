package serverutils

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"ai-blog-be/internal/entity"
	"ai-blog-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AuthTokenHeader carries the session token. It is a custom header, not a
// bearer Authorization header.
const AuthTokenHeader = "auth-token"

const (
	localsUserID    = "user_id"
	localsSessionID = "session_id"
)

type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*entity.Session, error)
}

// IsLoggedIn requires a token that resolves to a live session of a known
// user. Browser navigations are redirected to signInURL with the original
// destination preserved in the redirect query parameter.
func IsLoggedIn(resolver SessionResolver, signInURL string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := strings.TrimSpace(ctx.Get(AuthTokenHeader))
		if token == "" {
			return unauthenticated(ctx, signInURL, apperror.Authentication("You must be logged in"))
		}

		session, err := resolver.ResolveSession(ctx.Context(), token)
		if err != nil {
			return unauthenticated(ctx, signInURL, err)
		}

		ctx.Locals(localsUserID, session.UserId.String())
		ctx.Locals(localsSessionID, session.Id)
		return ctx.Next()
	}
}

func unauthenticated(ctx *fiber.Ctx, signInURL string, err error) error {
	if apperror.KindOf(err) == apperror.KindAuthentication && isBrowserNavigation(ctx) {
		target, parseErr := signInTarget(signInURL, ctx.OriginalURL())
		if parseErr != nil {
			return err
		}
		return ctx.Redirect(target, fiber.StatusSeeOther)
	}
	return err
}

// signInTarget adds the redirect parameter to signInURL, keeping any query
// it already carries.
func signInTarget(signInURL, original string) (string, error) {
	u, err := url.Parse(signInURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("redirect", original)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func isBrowserNavigation(ctx *fiber.Ctx) bool {
	return ctx.Method() == fiber.MethodGet && strings.Contains(ctx.Get(fiber.HeaderAccept), fiber.MIMETextHTML)
}

// UserIdFromLocals returns the user stored by IsLoggedIn.
func UserIdFromLocals(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := ctx.Locals(localsUserID).(string)
	if !ok || raw == "" {
		return uuid.Nil, apperror.Authentication("You must be logged in")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Authentication("You must be logged in")
	}
	return id, nil
}

func SessionIdFromLocals(ctx *fiber.Ctx) string {
	sid, _ := ctx.Locals(localsSessionID).(string)
	return sid
}

// AuthorCheck describes how IsResourceAuthor finds a resource and its owner.
type AuthorCheck[T any] struct {
	Name      string // used in messages, e.g. "review"
	Param     string // route parameter holding the id
	LocalsKey string // where the loaded resource is stored for the handler
	Load      func(ctx context.Context, id uuid.UUID) (*T, error)
	OwnerOf   func(resource *T) uuid.UUID
}

// IsResourceAuthor loads the resource named by the route once, rejects
// anyone but its author, and hands the loaded value to the next handler.
// It must be mounted after IsLoggedIn.
func IsResourceAuthor[T any](check AuthorCheck[T]) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userId, err := UserIdFromLocals(ctx)
		if err != nil {
			return err
		}

		notFound := apperror.NotFound(fmt.Sprintf("%s not found", check.Name))

		id, err := uuid.Parse(ctx.Params(check.Param))
		if err != nil {
			return notFound
		}

		resource, err := check.Load(ctx.Context(), id)
		if err != nil {
			return err
		}
		if resource == nil {
			return notFound
		}

		if check.OwnerOf(resource) != userId {
			return apperror.Authorization(fmt.Sprintf("You are not the author of this %s", check.Name))
		}

		ctx.Locals(check.LocalsKey, resource)
		return ctx.Next()
	}
}

// ResourceFromLocals fetches what IsResourceAuthor stored.
func ResourceFromLocals[T any](ctx *fiber.Ctx, key string) (*T, error) {
	resource, ok := ctx.Locals(key).(*T)
	if !ok || resource == nil {
		return nil, fmt.Errorf("resource %q missing from request context", key)
	}
	return resource, nil
}
