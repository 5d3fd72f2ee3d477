package service

import (
	"strconv"
	"time"

	"github.com/brundhavanam/grocery/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var hs256Parser = jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

// tokenIssuer 一套 HS256 密钥与有效期，管理员与顾客各用一套
type tokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func newTokenIssuer(cfg config.JWTConfig, defaultHours int) tokenIssuer {
	hours := cfg.ExpireHours
	if hours <= 0 {
		hours = defaultHours
	}
	return tokenIssuer{
		secret: []byte(cfg.SecretKey),
		issuer: cfg.Issuer,
		ttl:    time.Duration(hours) * time.Hour,
	}
}

// registered sub 为主体 ID，同时返回过期时间
func (ti tokenIssuer) registered(subjectID uint, now time.Time) (jwt.RegisteredClaims, time.Time) {
	expiresAt := now.Add(ti.ttl)
	return jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(subjectID), 10),
		Issuer:    ti.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}, expiresAt
}

func (ti tokenIssuer) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

// parseClaims 只接受 HS256 且签名、时间均有效的 token
func parseClaims[T any, PT interface {
	*T
	jwt.Claims
}](ti tokenIssuer, raw string) (PT, error) {
	claims := PT(new(T))
	token, err := hs256Parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return ti.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func hashSecret(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(hash), err
}

func matchSecret(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
