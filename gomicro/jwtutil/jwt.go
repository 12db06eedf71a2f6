package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Console roles carried in the token
const (
	RoleAdmin    = "ADMIN"
	RoleMerchant = "MERCHANT"
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// OperatorClaims represents the JWT claims of a console operator
type OperatorClaims struct {
	Email      string `json:"email"`
	OperatorID string `json:"operator_id"`
	Role       string `json:"role"`
	MerchantID string `json:"merchant_id,omitempty"` // empty for admins
	jwt.RegisteredClaims
}

// IsAdmin reports whether the operator holds the platform admin role
func (c *OperatorClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *JWTConfig
	now    func() time.Time
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config *JWTConfig) *JWTUtil {
	return &JWTUtil{
		config: config,
		now:    time.Now,
	}
}

// GenerateToken creates a signed token for an operator
func (j *JWTUtil) GenerateToken(email, operatorID, role, merchantID string) (string, error) {
	if j.config == nil {
		return "", errors.New("JWT configuration not provided")
	}
	if role != RoleAdmin && role != RoleMerchant {
		return "", fmt.Errorf("unknown role %q", role)
	}

	now := j.now()
	claims := OperatorClaims{
		Email:      email,
		OperatorID: operatorID,
		Role:       role,
		MerchantID: merchantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operatorID,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(j.config.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*OperatorClaims, error) {
	if j.config == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&OperatorClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*OperatorClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
