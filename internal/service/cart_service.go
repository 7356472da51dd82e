package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/qkart/internal/constants"
	"github.com/RoyceAzure/lab/qkart/internal/infra/repository"
	"github.com/RoyceAzure/lab/qkart/internal/model"
	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/rs/zerolog/log"
)

var (
	ErrCartNotFound         = errors.New("User does not have a cart")
	ErrCartNotFoundOnUpdate = errors.New("User does not have a cart. Use POST to create cart and add a product")
	ErrCartCreateFailed     = errors.New("Something went wrong while creating cart")
	ErrProductAlreadyInCart = errors.New("Product already in cart. Use the cart sidebar to update or remove product from cart")
	ErrProductNotInDatabase = errors.New("Product doesn't exist in database")
	ErrProductNotInCart     = errors.New("Product not in cart")
	ErrCartEmpty            = errors.New("User does not have Products in Cart")
	ErrAddressNotSet        = errors.New("Address not set")
	ErrInsufficientBalance  = errors.New("Wallet balance is insufficient")
	ErrInvalidQuantity      = errors.New("Quantity must be at least 1")
)

type ICartService interface {
	// GetCartByUser 錯誤:
	//   - er.NotFoundCode 404: 使用者沒有購物車
	GetCartByUser(ctx context.Context, user *model.UserModel) (*model.CartModel, error)
	// AddProductToCart 購物車不存在時建立, 商品以快照形式加入
	//
	// 錯誤:
	//   - er.BadRequestCode 400: 數量小於1, 商品已在購物車, 商品不存在
	//   - er.InternalErrorCode 500: 建立或儲存購物車失敗
	AddProductToCart(ctx context.Context, user *model.UserModel, productID string, quantity int) (*model.CartModel, error)
	// UpdateProductInCart 只覆寫數量, 不重新取商品快照
	//
	// 錯誤:
	//   - er.BadRequestCode 400: 沒有購物車, 商品不存在, 商品不在購物車
	//   - er.InternalErrorCode 500: 儲存失敗
	UpdateProductInCart(ctx context.Context, user *model.UserModel, productID string, quantity int) (*model.CartModel, error)
	DeleteProductFromCart(ctx context.Context, user *model.UserModel, productID string) (*model.CartModel, error)
	// Checkout 扣款並清空購物車, 兩者在同一個交易內
	//
	// 錯誤:
	//   - er.NotFoundCode 404: 沒有購物車
	//   - er.BadRequestCode 400: 購物車為空, 未設定地址, 餘額不足
	//   - er.InternalErrorCode 500: 寫入失敗 (錢包已還原)
	Checkout(ctx context.Context, user *model.UserModel) error
}

type CartService struct {
	store repository.IStore
}

func NewCartService(store repository.IStore) ICartService {
	if store == nil {
		panic("cart service initialization failed: store cannot be nil")
	}
	return &CartService{
		store: store,
	}
}

func (c *CartService) GetCartByUser(ctx context.Context, user *model.UserModel) (*model.CartModel, error) {
	cart, err := c.store.GetCartByEmail(ctx, user.Email)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, er.New(er.NotFoundCode, ErrCartNotFound.Error())
		}
		return nil, er.New(er.InternalErrorCode, err.Error())
	}
	return cart, nil
}

func (c *CartService) AddProductToCart(ctx context.Context, user *model.UserModel, productID string, quantity int) (*model.CartModel, error) {
	if quantity < 1 {
		return nil, er.New(er.BadRequestCode, ErrInvalidQuantity.Error())
	}

	cart, err := c.store.GetCartByEmail(ctx, user.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrRecordNotFound) {
			return nil, er.New(er.InternalErrorCode, err.Error())
		}
		cart, err = c.store.CreateCart(ctx, &model.CartModel{
			Email:         user.Email,
			CartItems:     []model.CartItemModel{},
			PaymentOption: constants.DefaultPaymentOption,
		})
		if err != nil {
			log.Error().Err(err).Str("email", user.Email).Msg("create cart failed")
			return nil, er.New(er.InternalErrorCode, ErrCartCreateFailed.Error())
		}
	}

	if cart.FindItemIndex(productID) != -1 {
		return nil, er.New(er.BadRequestCode, ErrProductAlreadyInCart.Error())
	}

	product, err := c.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	// 之後都以 store 回傳的 id 比對
	if cart.FindItemIndex(product.ID) != -1 {
		return nil, er.New(er.BadRequestCode, ErrProductAlreadyInCart.Error())
	}

	cart.CartItems = append(cart.CartItems, model.CartItemModel{
		Product:  *product,
		Quantity: quantity,
	})

	if err := c.store.SaveCart(ctx, cart); err != nil {
		return nil, er.New(er.InternalErrorCode, err.Error())
	}
	return cart, nil
}

func (c *CartService) UpdateProductInCart(ctx context.Context, user *model.UserModel, productID string, quantity int) (*model.CartModel, error) {
	if quantity < 1 {
		return nil, er.New(er.BadRequestCode, ErrInvalidQuantity.Error())
	}

	cart, err := c.getCartForMutation(ctx, user, ErrCartNotFoundOnUpdate)
	if err != nil {
		return nil, err
	}

	product, err := c.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItemIndex(product.ID)
	if idx == -1 {
		return nil, er.New(er.BadRequestCode, ErrProductNotInCart.Error())
	}
	cart.CartItems[idx].Quantity = quantity

	if err := c.store.SaveCart(ctx, cart); err != nil {
		return nil, er.New(er.InternalErrorCode, err.Error())
	}
	return cart, nil
}

func (c *CartService) DeleteProductFromCart(ctx context.Context, user *model.UserModel, productID string) (*model.CartModel, error) {
	cart, err := c.getCartForMutation(ctx, user, ErrCartNotFound)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItemIndex(productID)
	if idx == -1 {
		return nil, er.New(er.BadRequestCode, ErrProductNotInCart.Error())
	}
	cart.CartItems = append(cart.CartItems[:idx], cart.CartItems[idx+1:]...)

	if err := c.store.SaveCart(ctx, cart); err != nil {
		return nil, er.New(er.InternalErrorCode, err.Error())
	}
	return cart, nil
}

func (c *CartService) Checkout(ctx context.Context, user *model.UserModel) error {
	cart, err := c.GetCartByUser(ctx, user)
	if err != nil {
		return err
	}

	if len(cart.CartItems) == 0 {
		return er.New(er.BadRequestCode, ErrCartEmpty.Error())
	}

	// 地址檢查要在任何錢包異動之前
	if !user.HasSetNonDefaultAddress() {
		return er.New(er.BadRequestCode, ErrAddressNotSet.Error())
	}

	total := cart.TotalCost()
	if user.WalletMoney.LessThan(total) {
		return er.New(er.BadRequestCode, ErrInsufficientBalance.Error())
	}

	original := *user
	debited := *user
	debited.WalletMoney = user.WalletMoney.Sub(total)

	cleared := cart.Clone()
	cleared.CartItems = []model.CartItemModel{}

	err = c.store.ExecTx(ctx, func(ctx context.Context, q repository.Queries) error {
		if err := q.SaveUser(ctx, &debited); err != nil {
			return fmt.Errorf("debit wallet: %w", err)
		}
		if err := q.SaveCart(ctx, cleared); err != nil {
			if c.store.Transactional() {
				return fmt.Errorf("clear cart: %w", err)
			}
			// 不支援交易的 store 需要自行補償扣款
			if rbErr := q.SaveUser(ctx, &original); rbErr != nil {
				log.Error().
					Err(rbErr).
					Str("user_id", user.ID).
					Str("amount", total.String()).
					Msg("restore wallet after failed checkout")
				return fmt.Errorf("clear cart: %v, restore wallet: %w", err, rbErr)
			}
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return er.New(er.InternalErrorCode, err.Error())
	}

	user.WalletMoney = debited.WalletMoney
	log.Info().
		Str("user_id", user.ID).
		Str("amount", total.String()).
		Int("items", len(cart.CartItems)).
		Msg("checkout completed")
	return nil
}

func (c *CartService) getCartForMutation(ctx context.Context, user *model.UserModel, missing error) (*model.CartModel, error) {
	cart, err := c.store.GetCartByEmail(ctx, user.Email)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, er.New(er.BadRequestCode, missing.Error())
		}
		return nil, er.New(er.InternalErrorCode, err.Error())
	}
	return cart, nil
}

func (c *CartService) getProduct(ctx context.Context, productID string) (*model.ProductModel, error) {
	product, err := c.store.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, er.New(er.BadRequestCode, ErrProductNotInDatabase.Error())
		}
		return nil, er.New(er.InternalErrorCode, err.Error())
	}
	return product, nil
}
