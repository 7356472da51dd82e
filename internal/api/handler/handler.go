package handler

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/qkart/internal/api/dto"
	"github.com/RoyceAzure/lab/qkart/internal/model"
	"github.com/RoyceAzure/rj/api"
	er "github.com/RoyceAzure/rj/util/rj_error"
)

// writeError AnaError 依 code 回應, 其餘視為 InternalError
func writeError(w http.ResponseWriter, err error) {
	if anaErr, ok := err.(*er.AnaError); ok {
		api.ErrorJSON(w, int(anaErr.Code), anaErr, er.ErrStrMap[anaErr.Code])
	} else {
		api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
	}
}

// decodeBody 解析 json 並驗證欄位
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return er.New(er.BadRequestCode, err.Error())
	}
	return dto.Validate(v)
}

// statusWriter 讓 api.SuccessJSON 以指定的 status code 回應
type statusWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func withStatus(w http.ResponseWriter, status int) http.ResponseWriter {
	return &statusWriter{ResponseWriter: w, status: status}
}

func (s *statusWriter) WriteHeader(int) {
	if s.wrote {
		return
	}
	s.wrote = true
	s.ResponseWriter.WriteHeader(s.status)
}

func (s *statusWriter) Write(b []byte) (int, error) {
	s.WriteHeader(s.status)
	return s.ResponseWriter.Write(b)
}

func convertUserModelToDTO(user *model.UserModel) dto.UserDTO {
	return dto.UserDTO{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		WalletMoney: user.WalletMoney,
		Address:     user.Address,
	}
}

func convertTokensModelToDTO(tokens *model.AuthTokensModel) dto.AuthTokensDTO {
	return dto.AuthTokensDTO{
		Access: dto.TokenDTO{
			Token:   tokens.Access.Token,
			Expires: tokens.Access.Expires,
		},
		Refresh: dto.TokenDTO{
			Token:   tokens.Refresh.Token,
			Expires: tokens.Refresh.Expires,
		},
	}
}

func convertProductModelToDTO(product *model.ProductModel) dto.ProductDTO {
	return dto.ProductDTO{
		ID:       product.ID,
		Name:     product.Name,
		Category: product.Category,
		Cost:     product.Cost,
		Rating:   product.Rating,
		Image:    product.Image,
	}
}

func convertCartModelToDTO(cart *model.CartModel) dto.CartDTO {
	items := make([]dto.CartItemDTO, 0, len(cart.CartItems))
	for i := range cart.CartItems {
		items = append(items, dto.CartItemDTO{
			Product:  convertProductModelToDTO(&cart.CartItems[i].Product),
			Quantity: cart.CartItems[i].Quantity,
		})
	}
	return dto.CartDTO{
		ID:            cart.ID,
		Email:         cart.Email,
		CartItems:     items,
		PaymentOption: cart.PaymentOption,
	}
}
