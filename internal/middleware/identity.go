package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// UserID returns the authenticated user id stored by JWTAuth, or
// false when the request is unauthenticated.
func UserID(c echo.Context) (uint64, bool) {
	v, ok := c.Get("user_id").(uint64)
	return v, ok
}

// Role returns the authenticated role, empty when unauthenticated.
func Role(c echo.Context) string {
	r, _ := c.Get("role").(string)
	return r
}

// requesterKey identifies the caller for per-user scoping: the user id
// when authenticated, "anon" otherwise.
func requesterKey(c echo.Context) string {
	if uid, ok := UserID(c); ok {
		return strconv.FormatUint(uid, 10)
	}
	return "anon"
}
