package dto

import "time"

type RegisterDTO struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"` //密碼明文
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenDTO 表示令牌資訊
type TokenDTO struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type AuthTokensDTO struct {
	Access  TokenDTO `json:"access"`
	Refresh TokenDTO `json:"refresh"`
}

// LoginResponse 表示登入響應的完整結構
type LoginResponse struct {
	User   UserDTO       `json:"user"`
	Tokens AuthTokensDTO `json:"tokens"`
}
