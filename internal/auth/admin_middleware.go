package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"gameshelf/backend/internal/config"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
)

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{
		"code":        "UNAUTHORIZED",
		"message":     message,
		"userMessage": "Admin access required",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	}})
}

// AdminMiddleware creates a gin middleware that requires a valid admin
// bearer token on the request.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "authorization header missing")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "authorization header must be a bearer token")
			return
		}

		token, err := gojwt.Parse(parts[1], func(token *gojwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*gojwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(config.AppConfig.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		claims, ok := token.Claims.(gojwt.MapClaims)
		if !ok || claims["role"] != "admin" {
			abortUnauthorized(c, "token lacks admin role")
			return
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Set("adminUser", sub)
		}
		c.Next()
	}
}
