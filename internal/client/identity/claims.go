package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
	"github.com/dmitrijs2005/fotogen/internal/common"
)

// Claims are the identity claims carried by an Entra ID access token.
type Claims struct {
	jwt.RegisteredClaims
	ObjectID          string `json:"oid"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	UPN               string `json:"upn"`
	Email             string `json:"email"`
}

// ParseClaims decodes token without verifying its signature. Verification is
// the API's job; the client only reads who it is talking as.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	return claims, nil
}

// Apply fills empty fields of id from the claims.
func (c *Claims) Apply(id *models.Identity) {
	if c.ObjectID != "" {
		id.ID = c.ObjectID
	} else if id.ID == "" {
		id.ID = c.Subject
	}
	if id.Name == "" {
		id.Name = c.Name
	}
	if id.Username == "" {
		id.Username = c.PreferredUsername
	}
	if id.Username == "" {
		id.Username = c.UPN
	}
	if id.Email == "" {
		id.Email = c.Email
	}
}
