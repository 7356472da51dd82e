package handler

import (
	"errors"
	"net/http"

	"github.com/RoyceAzure/lab/qkart/internal/api/dto"
	"github.com/RoyceAzure/lab/qkart/internal/model"
	"github.com/RoyceAzure/lab/qkart/internal/service"
	"github.com/RoyceAzure/lab/qkart/internal/util"
	"github.com/RoyceAzure/rj/api"
	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/go-chi/chi/v5"
)

var ErrForbiddenResource = errors.New("User not authorized to access this resource")

type UserHandler struct {
	userService service.IUserService
}

func NewUserHandler(userService service.IUserService) *UserHandler {
	if userService == nil {
		panic("userService cannot be nil")
	}
	return &UserHandler{
		userService: userService,
	}
}

// @Summary get user
// @use get user info, q=address only returns address
// @Tags users
// @Accept json
// @Produce json
// @Param userId path string true "user id"
// @Param q query string false "address"
// @Success 200 {object} api.Response{data=dto.UserDTO} "success"
// @Failure 401 {object} api.ResponseError{data=string} "UnauthenticatedCode"
// @Failure 403 {object} api.ResponseError{data=string} "UnauthorizedCode"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Security     ApiKeyAuth
// @Router /users/{userId} [get]
func (u *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	current, ok := currentUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	userID := chi.URLParam(r, "userId")

	if r.URL.Query().Get("q") == "address" {
		address, err := u.userService.GetUserAddressByID(ctx, userID)
		if err != nil {
			writeError(w, err)
			return
		}
		if address.Email != current.Email {
			writeError(w, er.New(er.UnauthorizedCode, ErrForbiddenResource.Error()))
			return
		}
		api.SuccessJSON(w, dto.AddressDTO{Address: address.Address}, nil)
		return
	}

	user, err := u.userService.GetUserByID(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user.Email != current.Email {
		writeError(w, er.New(er.UnauthorizedCode, ErrForbiddenResource.Error()))
		return
	}
	api.SuccessJSON(w, convertUserModelToDTO(user), nil)
}

// @Summary set address
// @use set shipping address of current user
// @Tags users
// @Accept json
// @Produce json
// @Param userId path string true "user id"
// @Param address body dto.SetAddressDTO true "address"
// @Success 200 {object} api.Response{data=dto.AddressDTO} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 401 {object} api.ResponseError{data=string} "UnauthenticatedCode"
// @Failure 403 {object} api.ResponseError{data=string} "UnauthorizedCode"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Security     ApiKeyAuth
// @Router /users/{userId} [put]
func (u *UserHandler) SetAddress(w http.ResponseWriter, r *http.Request) {
	current, ok := currentUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	user, err := u.userService.GetUserByID(ctx, chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	if user.Email != current.Email {
		writeError(w, er.New(er.UnauthorizedCode, ErrForbiddenResource.Error()))
		return
	}

	var addressDTO dto.SetAddressDTO
	if err := decodeBody(r, &addressDTO); err != nil {
		writeError(w, err)
		return
	}

	address, err := u.userService.SetAddress(ctx, user, addressDTO.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, dto.AddressDTO{Address: address}, nil)
}

// currentUser 受保護路由一定會有使用者, 沒有時直接回應 401
func currentUser(w http.ResponseWriter, r *http.Request) (*model.UserModel, bool) {
	user := util.GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, er.New(er.UnauthenticatedCode, service.ErrPleaseAuthenticate.Error()))
		return nil, false
	}
	return user, true
}
