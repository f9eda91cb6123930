package http

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dkeye/jamanager/internal/domain"
)

const clientTokenKey = "client_token"

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware issues a per-browser token cookie. The token doubles
// as the anonymous voter identity, so every request carries a usable de-dup
// key even before the attendee registers a name.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set(clientTokenKey, token)
		c.Next()
	}
}

// identityFrom resolves the voter identity: an explicit attendee id wins,
// then an explicit session token, then the browser cookie token.
func identityFrom(c *gin.Context, attendeeID, sessionToken string) domain.Identity {
	if attendeeID != "" {
		return domain.Identity{AttendeeID: domain.AttendeeID(attendeeID)}
	}
	if sessionToken == "" {
		sessionToken = c.GetString(clientTokenKey)
	}
	return domain.Anonymous(sessionToken)
}
