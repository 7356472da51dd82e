package token

import (
	"errors"
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/constants"
	"github.com/RoyceAzure/lab/qkart/internal/model"
)

var ErrInvalidToken = errors.New("Please authenticate")

// Maker 只負責簽章與解碼, 過期與 token 類型交給呼叫端判斷
type Maker interface {
	CreateToken(userID string, tokenType constants.TokenType, duration time.Duration) (string, *model.TokenPayload, error)
	DecodeToken(token string) (*model.TokenPayload, error)
}
