package token

import (
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/constants"
	"github.com/RoyceAzure/lab/qkart/internal/model"
	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/golang-jwt/jwt/v5"
)

const minSecretKeySize = 8

type claims struct {
	Type constants.TokenType `json:"type"`
	jwt.RegisteredClaims
}

type JWTMaker struct {
	secretKey []byte
	now       func() time.Time
}

func NewJWTMaker(secretKey string) (*JWTMaker, error) {
	if len(secretKey) < minSecretKeySize {
		return nil, fmt.Errorf("invalid key size: must be at least %d characters", minSecretKeySize)
	}
	return &JWTMaker{
		secretKey: []byte(secretKey),
		now:       time.Now,
	}, nil
}

func (m *JWTMaker) CreateToken(userID string, tokenType constants.TokenType, duration time.Duration) (string, *model.TokenPayload, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(duration)

	c := claims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secretKey)
	if err != nil {
		return "", nil, err
	}

	return signed, &model.TokenPayload{
		Sub:  userID,
		Type: tokenType,
		Iat:  issuedAt.Unix(),
		Exp:  expiresAt.Unix(),
	}, nil
}

// DecodeToken 只驗證 HS256 簽章
func (m *JWTMaker) DecodeToken(token string) (*model.TokenPayload, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return m.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, er.New(er.UnauthenticatedCode, ErrInvalidToken.Error())
	}

	payload := &model.TokenPayload{
		Sub:  c.Subject,
		Type: c.Type,
	}
	if c.IssuedAt != nil {
		payload.Iat = c.IssuedAt.Unix()
	}
	if c.ExpiresAt != nil {
		payload.Exp = c.ExpiresAt.Unix()
	}
	return payload, nil
}

var _ Maker = (*JWTMaker)(nil)
