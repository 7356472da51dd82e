package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/qkart/internal/api/dto"
	"github.com/RoyceAzure/lab/qkart/internal/service"
	"github.com/RoyceAzure/rj/api"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	productService service.IProductService
}

func NewProductHandler(productService service.IProductService) *ProductHandler {
	if productService == nil {
		panic("productService cannot be nil")
	}
	return &ProductHandler{
		productService: productService,
	}
}

// @Summary list products
// @Tags products
// @Produce json
// @Success 200 {object} api.Response{data=[]dto.ProductDTO} "success"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Router /products [get]
func (p *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productService.ListProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	res := make([]dto.ProductDTO, 0, len(products))
	for i := range products {
		res = append(res, convertProductModelToDTO(&products[i]))
	}
	api.SuccessJSON(w, res, nil)
}

// @Summary get product
// @Tags products
// @Produce json
// @Param productId path string true "product id"
// @Success 200 {object} api.Response{data=dto.ProductDTO} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Router /products/{productId} [get]
func (p *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := p.productService.GetProductByID(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, convertProductModelToDTO(product), nil)
}
