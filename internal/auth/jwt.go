package auth

import (
	"errors"
	"fmt"
	"time"

	"fret-backend/internal/identity"
	"fret-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type JWTCustomClaims struct {
	UserID  uint   `json:"user_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Roles   string `json:"roles"`
	SiteID  *uint  `json:"site_id"`
	GroupID *uint  `json:"group_id"`
	jwt.RegisteredClaims
}

// Identity turns the claims back into the request identity.
func (c *JWTCustomClaims) Identity(token string) identity.CurrentUser {
	return identity.CurrentUser{
		ID:      c.UserID,
		Name:    c.Name,
		Roles:   identity.ParseRoles(c.Roles),
		SiteID:  c.SiteID,
		GroupID: c.GroupID,
		Token:   token,
	}
}

func GenerateToken(secret string, ttl time.Duration, user *models.User) (string, error) {
	id := user.Identity()
	now := time.Now()
	claims := &JWTCustomClaims{
		UserID:  user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Roles:   identity.JoinRoles(id.Roles),
		SiteID:  id.SiteID,
		GroupID: id.GroupID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenStr string) (*JWTCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
