package model

import "github.com/shopspring/decimal"

type ProductModel struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Cost     decimal.Decimal `json:"cost"`
	Rating   int             `json:"rating"`
	Image    string          `json:"image"`
}
