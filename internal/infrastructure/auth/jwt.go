package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wardgate/wardgate/internal/shared/config"
)

const defaultRoleClaim = "role"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingRole  = errors.New("token carries no role claim")
)

// Principal is what a verified bearer token asserts about its caller.
type Principal struct {
	Subject  string
	RoleCode string
}

// JWTVerifier checks HS256 bearer tokens minted elsewhere. It never issues tokens.
type JWTVerifier struct {
	secret    []byte
	issuer    string
	roleClaim string
}

func NewJWTVerifier(cfg config.JWTConfig) *JWTVerifier {
	roleClaim := cfg.RoleClaim
	if roleClaim == "" {
		roleClaim = defaultRoleClaim
	}
	return &JWTVerifier{
		secret:    []byte(cfg.Secret),
		issuer:    cfg.Issuer,
		roleClaim: roleClaim,
	}
}

// Verify parses tokenString and returns the caller's role code, upper-cased.
func (v *JWTVerifier) Verify(tokenString string) (*Principal, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	role, _ := claims[v.roleClaim].(string)
	role = strings.ToUpper(strings.TrimSpace(role))
	if role == "" {
		return nil, ErrMissingRole
	}

	subject, _ := claims.GetSubject()
	return &Principal{Subject: subject, RoleCode: role}, nil
}
