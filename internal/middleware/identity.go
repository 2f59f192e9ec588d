package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/In1quity/Fountain/internal/utils"
)

// Identity returns a middleware that validates JWT bearer tokens and binds
// the wiki username of the acting user to the request. Identity resolution
// itself (the OAuth dance against the wiki) is an external collaborator;
// this service only consumes the resulting token.
func Identity(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		username := extractUsername(claims)
		if username == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "token carries no username")
		}
		c.Locals("username", username)

		return c.Next()
	}
}

// Username returns the authenticated wiki username bound to the request, or
// an empty string when the request is anonymous.
func Username(c *fiber.Ctx) string {
	if value := c.Locals("username"); value != nil {
		if username, ok := value.(string); ok {
			return username
		}
	}
	return ""
}

func extractUsername(claims jwt.MapClaims) string {
	for _, key := range []string{"username", "sub"} {
		if value, ok := claims[key]; ok {
			if username, ok := value.(string); ok {
				if trimmed := strings.TrimSpace(username); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}
