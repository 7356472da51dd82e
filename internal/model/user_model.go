package model

import (
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/constants"
	"github.com/shopspring/decimal"
)

type UserModel struct {
	ID          string
	Name        string
	Email       string
	Password    string // bcrypt digest
	Address     string
	WalletMoney decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasSetNonDefaultAddress 地址非空且不是預設值
func (u *UserModel) HasSetNonDefaultAddress() bool {
	return u.Address != "" && u.Address != constants.DefaultAddress
}

type UserAddressModel struct {
	Email   string
	Address string
}

type CreateUserModel struct {
	Name     string
	Email    string
	Password string // 明文
}
