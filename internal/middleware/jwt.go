package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"HoldemServer/internal/auth"
)

const (
	CtxPlayerID  = "player_id"
	CtxSessionID = "session_id"
)

// BearerToken 取 Authorization: Bearer xxx，浏览器 websocket 无法带头时退回 ?token=
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return c.Query("token")
}

// JwtAuthMiddleware rejects requests without a valid session token and puts
// the player and session ids into the context.
func JwtAuthMiddleware(iss *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := BearerToken(c)
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := iss.Parse(tok)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		c.Set(CtxPlayerID, claims.PlayerID())
		c.Set(CtxSessionID, claims.SessionID)
		c.Next()
	}
}
