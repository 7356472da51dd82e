package dto

type AddCartItemDTO struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// UpdateCartItemDTO quantity 為 0 代表從購物車移除, 缺少 quantity 視為錯誤請求
type UpdateCartItemDTO struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"required,min=0"`
}

type CartItemDTO struct {
	Product  ProductDTO `json:"product"`
	Quantity int        `json:"quantity"`
}

type CartDTO struct {
	ID            string        `json:"_id"`
	Email         string        `json:"email"`
	CartItems     []CartItemDTO `json:"cartItems"`
	PaymentOption string        `json:"paymentOption"`
}
