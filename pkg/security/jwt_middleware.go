package security

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"frota/internal/accesspolicy"
)

const actorContextKey = "actor"

// ActorResolver maps a staff id from a validated token to the policy
// actor. Satisfied by the identity resolver; declared here so the
// middleware does not import the package whose routes it protects.
type ActorResolver interface {
	ResolveActor(staffID uuid.UUID) (accesspolicy.Actor, error)
}

// JWTMiddleware validates the bearer token and extracts claims.
func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return secretKey()
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims := token.Claims.(jwt.MapClaims)
		c.Set("staffID", claims["staffID"])
		c.Set("role", claims["role"])
		c.Next()
	}
}

// ActorMiddleware resolves the token's staff id into a policy actor once
// per request. Every downstream handler reads the actor from the context
// instead of re-deriving role and region checks.
func ActorMiddleware(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get("staffID")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing staff identity"})
			return
		}

		staffID, ok := raw.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid staff identity"})
			return
		}

		id, err := uuid.Parse(staffID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid staff identity"})
			return
		}

		actor, err := resolver.ResolveActor(id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unable to resolve staff member"})
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// ActorFromContext returns the actor placed by ActorMiddleware.
func ActorFromContext(c *gin.Context) (accesspolicy.Actor, bool) {
	raw, exists := c.Get(actorContextKey)
	if !exists {
		return accesspolicy.Actor{}, false
	}
	actor, ok := raw.(accesspolicy.Actor)
	return actor, ok
}

// RequireLevel gates a route on a minimum role level.
func RequireLevel(minLevel int) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok || actor.RoleLevel < minLevel {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			return
		}
		c.Next()
	}
}
