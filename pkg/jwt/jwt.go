package jwt

import (
	"time"

	"gameshelf/backend/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken creates a new admin JWT for a given username.
func GenerateToken(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  username,
		"role": "admin",
		"exp":  time.Now().Add(time.Hour * 24 * 7).Unix(), // Token expires in 7 days
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}
