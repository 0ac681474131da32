package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const sessionContextKey = "checkout_session_id"

// SessionMiddleware gives every browser a checkout session id cookie.
// Cookies that are not a uuid are replaced.
func SessionMiddleware(cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sessionID string
			if cookie, err := c.Cookie(cookieName); err == nil {
				if _, err = uuid.Parse(cookie.Value); err == nil {
					sessionID = cookie.Value
				}
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cookieName,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(sessionContextKey, sessionID)
			return next(c)
		}
	}
}

// SessionID is the checkout session of the request, set by SessionMiddleware.
func SessionID(c echo.Context) string {
	id, _ := c.Get(sessionContextKey).(string)
	return id
}
