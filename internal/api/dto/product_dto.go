package dto

import "github.com/shopspring/decimal"

type ProductDTO struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Cost     decimal.Decimal `json:"cost"`
	Rating   int             `json:"rating"`
	Image    string          `json:"image"`
}
