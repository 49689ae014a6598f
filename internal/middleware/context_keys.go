package middleware

import "github.com/gin-gonic/gin"

// actorIDKey is the key used to store the acting user's ID in the Gin context.
// Using a custom type prevents collisions.
const actorIDKey = contextKey("actorID")

// ActorHeader is the request header carrying the acting user's identifier.
const ActorHeader = "X-Actor-ID"

// systemActorID attributes changes when no actor header is present.
const systemActorID = "system"

// ActorMiddleware resolves the acting user from the request header and stores
// it in the Gin context for handlers to attribute audit fields.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(ActorHeader)
		if actorID == "" {
			actorID = systemActorID
		}
		c.Set(string(actorIDKey), actorID)
		c.Next()
	}
}

// GetActorIDFromContext retrieves the acting user ID from the Gin context.
// It returns the actor ID and a boolean indicating if it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorIDVal, exists := c.Get(string(actorIDKey))
	if !exists {
		// check in the request context as well
		actorVal := c.Request.Context().Value(actorIDKey)
		if actorVal != nil {
			return actorVal.(string), true
		}
		return "", false
	}

	actorID, ok := actorIDVal.(string)
	if !ok {
		return "", false
	}

	return actorID, true
}
