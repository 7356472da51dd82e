package dto

import "github.com/shopspring/decimal"

// UserDTO 表示用戶資訊, 不含密碼
type UserDTO struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	WalletMoney decimal.Decimal `json:"walletMoney"`
	Address     string          `json:"address"`
}

type SetAddressDTO struct {
	Address string `json:"address" validate:"required,min=20"`
}

type AddressDTO struct {
	Address string `json:"address"`
}
