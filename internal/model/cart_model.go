package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CartItemModel 保存加入購物車當下的商品快照, 之後商品改價不影響購物車
type CartItemModel struct {
	Product  ProductModel
	Quantity int
}

type CartModel struct {
	ID            string
	Email         string
	CartItems     []CartItemModel
	PaymentOption string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FindItemIndex 回傳商品在購物車中的位置, 不存在回傳 -1
// 商品 id 為 ObjectID hex 或 uuid, 比對不分大小寫
func (c *CartModel) FindItemIndex(productID string) int {
	for i, item := range c.CartItems {
		if strings.EqualFold(item.Product.ID, productID) {
			return i
		}
	}
	return -1
}

func (c *CartModel) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.CartItems {
		total = total.Add(item.Product.Cost.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Clone 深拷貝, 讓呼叫端修改 CartItems 不會影響原本的值
func (c *CartModel) Clone() *CartModel {
	cp := *c
	cp.CartItems = make([]CartItemModel, len(c.CartItems))
	copy(cp.CartItems, c.CartItems)
	return &cp
}
