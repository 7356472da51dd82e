package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/qkart/internal/api/dto"
	"github.com/RoyceAzure/lab/qkart/internal/service"
	"github.com/RoyceAzure/rj/api"
)

type CartHandler struct {
	cartService service.ICartService
}

func NewCartHandler(cartService service.ICartService) *CartHandler {
	if cartService == nil {
		panic("cartService cannot be nil")
	}
	return &CartHandler{
		cartService: cartService,
	}
}

// @Summary get cart
// @Tags cart
// @Produce json
// @Success 200 {object} api.Response{data=dto.CartDTO} "success"
// @Failure 401 {object} api.ResponseError{data=string} "UnauthenticatedCode"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Security     ApiKeyAuth
// @Router /cart [get]
func (c *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	cart, err := c.cartService.GetCartByUser(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, convertCartModelToDTO(cart), nil)
}

// @Summary add product to cart
// @use create cart when user has none
// @Tags cart
// @Accept json
// @Produce json
// @Param item body dto.AddCartItemDTO true "product id and quantity"
// @Success 201 {object} api.Response{data=dto.CartDTO} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 401 {object} api.ResponseError{data=string} "UnauthenticatedCode"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Security     ApiKeyAuth
// @Router /cart [post]
func (c *CartHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var itemDTO dto.AddCartItemDTO
	if err := decodeBody(r, &itemDTO); err != nil {
		writeError(w, err)
		return
	}

	cart, err := c.cartService.AddProductToCart(r.Context(), user, itemDTO.ProductID, itemDTO.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(withStatus(w, http.StatusCreated), convertCartModelToDTO(cart), nil)
}

// @Summary update product quantity
// @use quantity 0 removes the product and responds 204
// @Tags cart
// @Accept json
// @Produce json
// @Param item body dto.UpdateCartItemDTO true "product id and quantity"
// @Success 200 {object} api.Response{data=dto.CartDTO} "success"
// @Success 204 "removed"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 401 {object} api.ResponseError{data=string} "UnauthenticatedCode"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Security     ApiKeyAuth
// @Router /cart [put]
func (c *CartHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var itemDTO dto.UpdateCartItemDTO
	if err := decodeBody(r, &itemDTO); err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()
	if *itemDTO.Quantity == 0 {
		if _, err := c.cartService.DeleteProductFromCart(ctx, user, itemDTO.ProductID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	cart, err := c.cartService.UpdateProductInCart(ctx, user, itemDTO.ProductID, *itemDTO.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, convertCartModelToDTO(cart), nil)
}

// @Summary checkout
// @use pay with wallet and empty the cart
// @Tags cart
// @Produce json
// @Success 204 "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 401 {object} api.ResponseError{data=string} "UnauthenticatedCode"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Security     ApiKeyAuth
// @Router /cart/checkout [put]
func (c *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := c.cartService.Checkout(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
