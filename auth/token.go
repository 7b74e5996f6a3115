package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/bazaarhub-dev/marketplace-api/config"
	"github.com/bazaarhub-dev/marketplace-api/models"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the role-tagged caller identity decoded from a token.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Role   models.Role
}

// IssueToken signs a JWT for the user with the configured secret and TTL.
func IssueToken(cfg config.Config, user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(cfg.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken verifies the signature and extracts the caller identity.
func ParseToken(cfg config.Config, tokenString string) (Identity, error) {
	var identity Identity

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return identity, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return identity, ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	roleStr, _ := claims["role"].(string)
	role, validRole := models.ToRole(roleStr)
	if userID == "" || !validRole {
		return identity, ErrInvalidToken
	}

	identity.UserID = userID
	identity.Role = role
	identity.Name, _ = claims["name"].(string)
	identity.Email, _ = claims["email"].(string)

	return identity, nil
}
