package model

import (
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/constants"
)

// TokenPayload 解碼後的 token 內容, 不會落地
type TokenPayload struct {
	Sub  string
	Type constants.TokenType
	Iat  int64
	Exp  int64
}

func (p *TokenPayload) ExpiresAt() time.Time {
	return time.Unix(p.Exp, 0)
}

type TokenModel struct {
	Token   string
	Expires time.Time
}

type AuthTokensModel struct {
	Access  TokenModel
	Refresh TokenModel
}

type LoginResponseModel struct {
	User   UserModel
	Tokens AuthTokensModel
}
