// Package jwt проверяет JWT токены, выпущенные внешним провайдером идентификации.
//
// Сервис не выпускает токены сам: он только проверяет подпись HS256 общим секретом,
// срок действия и, если задан, издателя, и извлекает username, role и email.
package jwt

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingUsername возвращается, если в валидном токене нет имени пользователя.
var ErrMissingUsername = errors.New("token has no username claim")

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Parser проверяет токены общим секретом.
type Parser struct {
	secretKey []byte
	issuer    string
}

// NewParser создает Parser. Пустой issuer отключает проверку издателя.
func NewParser(secretKey, issuer string) *Parser {
	return &Parser{
		secretKey: []byte(secretKey),
		issuer:    issuer,
	}
}

// ParseToken парсит JWT токен, проверяет подпись и срок действия,
// возвращает CustomClaims, если токен корректен.
func (p *Parser) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return p.secretKey, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.Username == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingUsername)
	}
	return claims, nil
}
