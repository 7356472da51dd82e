package docstore

import (
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/model"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 欄位名稱沿用前端既有的 mongoose schema
type userDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Email       string               `bson:"email"`
	Password    string               `bson:"password"`
	WalletMoney primitive.Decimal128 `bson:"walletMoney"`
	Address     string               `bson:"address"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

type productDocument struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty"`
	Name     string               `bson:"name"`
	Category string               `bson:"category"`
	Cost     primitive.Decimal128 `bson:"cost"`
	Rating   int                  `bson:"rating"`
	Image    string               `bson:"image"`
}

type cartItemDocument struct {
	Product  productDocument `bson:"product"`
	Quantity int             `bson:"quantity"`
}

type cartDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Email         string             `bson:"email"`
	CartItems     []cartItemDocument `bson:"cartItems"`
	PaymentOption string             `bson:"paymentOption"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// toDecimal128 超過 decimal128 的 34 位有效數字時回傳錯誤, 不可默默存成 0
func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("amount %s cannot be stored as decimal128: %w", d.String(), err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal128 amount %s: %w", v.String(), err)
	}
	return d, nil
}

// objectIDFromHex 空字串回傳 NilObjectID, 交給 omitempty 由資料庫產生
func objectIDFromHex(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, nil
	}
	return primitive.ObjectIDFromHex(id)
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

func convertUserDocToModel(doc *userDocument) (*model.UserModel, error) {
	wallet, err := fromDecimal128(doc.WalletMoney)
	if err != nil {
		return nil, err
	}
	return &model.UserModel{
		ID:          hexOrEmpty(doc.ID),
		Name:        doc.Name,
		Email:       doc.Email,
		Password:    doc.Password,
		WalletMoney: wallet,
		Address:     doc.Address,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

func convertUserModelToDoc(m *model.UserModel) (*userDocument, error) {
	id, err := objectIDFromHex(m.ID)
	if err != nil {
		return nil, err
	}
	wallet, err := toDecimal128(m.WalletMoney)
	if err != nil {
		return nil, err
	}
	return &userDocument{
		ID:          id,
		Name:        m.Name,
		Email:       m.Email,
		Password:    m.Password,
		WalletMoney: wallet,
		Address:     m.Address,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

func convertProductDocToModel(doc *productDocument) (*model.ProductModel, error) {
	cost, err := fromDecimal128(doc.Cost)
	if err != nil {
		return nil, err
	}
	return &model.ProductModel{
		ID:       hexOrEmpty(doc.ID),
		Name:     doc.Name,
		Category: doc.Category,
		Cost:     cost,
		Rating:   doc.Rating,
		Image:    doc.Image,
	}, nil
}

func convertProductModelToDoc(m *model.ProductModel) (*productDocument, error) {
	id, err := objectIDFromHex(m.ID)
	if err != nil {
		return nil, err
	}
	cost, err := toDecimal128(m.Cost)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", m.Name, err)
	}
	return &productDocument{
		ID:       id,
		Name:     m.Name,
		Category: m.Category,
		Cost:     cost,
		Rating:   m.Rating,
		Image:    m.Image,
	}, nil
}

func convertCartDocToModel(doc *cartDocument) (*model.CartModel, error) {
	items := make([]model.CartItemModel, 0, len(doc.CartItems))
	for i := range doc.CartItems {
		product, err := convertProductDocToModel(&doc.CartItems[i].Product)
		if err != nil {
			return nil, err
		}
		items = append(items, model.CartItemModel{
			Product:  *product,
			Quantity: doc.CartItems[i].Quantity,
		})
	}
	return &model.CartModel{
		ID:            hexOrEmpty(doc.ID),
		Email:         doc.Email,
		CartItems:     items,
		PaymentOption: doc.PaymentOption,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}

func convertCartModelToDoc(m *model.CartModel) (*cartDocument, error) {
	id, err := objectIDFromHex(m.ID)
	if err != nil {
		return nil, err
	}
	items := make([]cartItemDocument, 0, len(m.CartItems))
	for _, item := range m.CartItems {
		product, err := convertProductModelToDoc(&item.Product)
		if err != nil {
			return nil, err
		}
		items = append(items, cartItemDocument{
			Product:  *product,
			Quantity: item.Quantity,
		})
	}
	return &cartDocument{
		ID:            id,
		Email:         m.Email,
		CartItems:     items,
		PaymentOption: m.PaymentOption,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}
