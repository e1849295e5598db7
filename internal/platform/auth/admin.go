package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RoleAdmin is the only stored role value that grants admin routes.
const RoleAdmin = "admin"

// DenyPolicy selects how a non-admin caller is turned away.
type DenyPolicy string

const (
	// DenyEmpty answers 200 with an empty list, which existing clients rely on.
	DenyEmpty DenyPolicy = "empty"
	// DenyForbidden answers 403.
	DenyForbidden DenyPolicy = "forbidden"
)

// AuthorizationOutcome is the result of checking a caller against an admin route.
type AuthorizationOutcome int

const (
	Allowed AuthorizationOutcome = iota
	DeniedEmpty
	DeniedForbidden
)

func (o AuthorizationOutcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case DeniedEmpty:
		return "denied_empty"
	case DeniedForbidden:
		return "denied_forbidden"
	default:
		return "unknown"
	}
}

// RoleLookup resolves the stored role of the user with the given email.
// found is false when no such user exists.
type RoleLookup interface {
	RoleByEmail(ctx context.Context, email string) (role string, found bool, err error)
}

// Authorize decides whether email may use an admin route under policy.
func Authorize(ctx context.Context, lookup RoleLookup, policy DenyPolicy, email string) (AuthorizationOutcome, error) {
	role, found, err := lookup.RoleByEmail(ctx, email)
	if err != nil {
		return DeniedForbidden, fmt.Errorf("look up role for %s: %w", email, err)
	}
	if found && role == RoleAdmin {
		return Allowed, nil
	}
	if policy == DenyForbidden {
		return DeniedForbidden, nil
	}
	return DeniedEmpty, nil
}

// EmptyResponder writes the answer for a DeniedEmpty caller.
type EmptyResponder func(c echo.Context) error

func emptyList(c echo.Context) error {
	return c.JSON(http.StatusOK, []interface{}{})
}

// RequireAdmin gates a route on the verified caller holding the admin role.
// It must run after TokenMiddleware. Denied callers under DenyEmpty get [].
func RequireAdmin(lookup RoleLookup, policy DenyPolicy) echo.MiddlewareFunc {
	return RequireAdminWith(lookup, policy, emptyList)
}

// RequireAdminWith is RequireAdmin for routes whose empty answer is not a
// bare list, such as paged listings.
func RequireAdminWith(lookup RoleLookup, policy DenyPolicy, empty EmptyResponder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			outcome, err := Authorize(c.Request().Context(), lookup, policy, EmailFromContext(c.Request().Context()))
			if err != nil {
				return err
			}

			switch outcome {
			case Allowed:
				return next(c)
			case DeniedEmpty:
				return empty(c)
			default:
				return echo.NewHTTPError(http.StatusForbidden, MsgForbidden)
			}
		}
	}
}
