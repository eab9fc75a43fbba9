package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GenerateToken issues a signed partner token. The agency claim rides along
// so request handling never needs a directory lookup just to know the
// caller's organization.
func GenerateToken(userID uuid.UUID, agency string, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":    userID.String(),
		"agency": agency,
		"exp":    time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
