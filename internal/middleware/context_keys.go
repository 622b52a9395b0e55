package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ActorHeader carries the identity of the caller acting on the ledger.
// Authentication happens upstream; the ledger only records who acted.
const ActorHeader = "X-Actor-ID"

// actorKey is the key used to store the acting identity in the Gin context.
const actorKey = contextKey("actor")

// RequireActor rejects requests without an actor header and stores the actor for handlers.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(ActorHeader))
		if actor == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + ActorHeader + " header"})
			return
		}
		c.Set(string(actorKey), actor)
		c.Next()
	}
}

// GetActorFromContext retrieves the acting identity from the Gin context.
// It returns the actor and a boolean indicating if it was found.
func GetActorFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(actorKey))
	if !exists {
		return "", false
	}
	actor, ok := val.(string)
	return actor, ok && actor != ""
}
