// Package auth issues and verifies the bearer tokens that identify the caller of a mutation.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is the gin context key holding the *Principal of an authenticated request.
const ContextKey = "principal"

var (
	ErrMissingSecret = errors.New("jwt secret is empty")
	ErrInvalidToken  = errors.New("invalid token")
)

// Principal is the authenticated caller. Identity is the raw subject carried by the token.
type Principal struct {
	Identity string
	Email    string
	ReadOnly bool
}

// UserID returns the integer user id behind Identity.
func (p *Principal) UserID() (int64, bool) {
	if p == nil || p.Identity == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(p.Identity, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Claims is the JWT payload.
type Claims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email,omitempty"`
	ReadOnly bool   `json:"readOnly,omitempty"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 tokens.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokens(secret, issuer string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// Issue returns a signed token for userID.
func (t *Tokens) Issue(userID, email string) (string, error) {
	return t.issue(userID, email, false)
}

// IssueReadOnly returns a signed token for a user who may read but not modify anything.
func (t *Tokens) IssueReadOnly(userID, email string) (string, error) {
	return t.issue(userID, email, true)
}

func (t *Tokens) issue(userID, email string, readOnly bool) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Email:    email,
		ReadOnly: readOnly,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies raw and returns the principal it names.
func (t *Tokens) Parse(raw string) (*Principal, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	identity := claims.UserID
	if identity == "" {
		identity = claims.Subject
	}
	return &Principal{Identity: identity, Email: claims.Email, ReadOnly: claims.ReadOnly}, nil
}

// FromGin returns the principal stored on c, or nil for an anonymous request.
func FromGin(c *gin.Context) *Principal {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil
	}
	p, _ := v.(*Principal)
	return p
}
