package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token shape issued by the auth service: a numeric
// user id in "sub", the username, and a unix expiry.
type Claims struct {
	UserID   int64  `json:"sub"`
	Username string `json:"username"`
	Exp      int64  `json:"exp"`
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.Exp == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(c.Exp, 0)), nil
}

func (c Claims) GetIssuedAt() (*jwt.NumericDate, error)  { return nil, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c Claims) GetIssuer() (string, error)              { return "", nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

func (c Claims) GetSubject() (string, error) {
	return strconv.FormatInt(c.UserID, 10), nil
}

// JWTVerifier validates HS256 tokens minted by the auth service.
type JWTVerifier struct {
	secret []byte
}

var _ Verifier = (*JWTVerifier)(nil)

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) VerifyCredential(_ context.Context, tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	if !token.Valid {
		return Identity{}, ErrInvalidCredential
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == 0 {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidCredential)
	}
	return Identity{ID: claims.UserID, Username: claims.Username}, nil
}

// Mint signs a token for the given identity. The auth service owns
// issuance in production; this exists for dev tooling and tests.
func Mint(secret string, identity Identity, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:   identity.ID,
		Username: identity.Username,
		Exp:      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
