package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/qkart/internal/api/dto"
	"github.com/RoyceAzure/lab/qkart/internal/model"
	"github.com/RoyceAzure/lab/qkart/internal/service"
	"github.com/RoyceAzure/rj/api"
)

type AuthHandler struct {
	authService service.IAuthService
}

func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	return &AuthHandler{
		authService: authService,
	}
}

// @Summary register
// @use create account and login
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.RegisterDTO true "name, email and password"
// @Success 201 {object} api.Response{data=dto.LoginResponse} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Router /auth/register [post]
func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var registerDTO dto.RegisterDTO
	if err := decodeBody(r, &registerDTO); err != nil {
		writeError(w, err)
		return
	}

	loginRes, err := a.authService.Register(r.Context(), &model.CreateUserModel{
		Name:     registerDTO.Name,
		Email:    registerDTO.Email,
		Password: registerDTO.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	api.SuccessJSON(withStatus(w, http.StatusCreated), convertLoginResponse(loginRes), nil)
}

// @Summary email and password login
// @use email and password to login
// @Tags auth
// @Accept json
// @Produce json
// @Param credential body dto.LoginDTO true "email and password"
// @Success 200 {object} api.Response{data=dto.LoginResponse} "success"
// @Failure 401 {object} api.ResponseError{data=string} "UnauthenticatedCode"
// @Failure 429 {object} api.ResponseError{data=string} "Too many requests"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Router /auth/login [post]
func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginDTO dto.LoginDTO
	if err := decodeBody(r, &loginDTO); err != nil {
		writeError(w, err)
		return
	}

	loginRes, err := a.authService.Login(r.Context(), loginDTO.Email, loginDTO.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	api.SuccessJSON(w, convertLoginResponse(loginRes), nil)
}

// @Summary renew tokens
// @use refresh token to renew access and refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param refreshToken body dto.RefreshTokenDTO true "refresh token"
// @Success 200 {object} api.Response{data=dto.AuthTokensDTO} "success"
// @Failure 401 {object} api.ResponseError{data=string} "UnauthenticatedCode"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Router /auth/refresh-tokens [post]
func (a *AuthHandler) RefreshTokens(w http.ResponseWriter, r *http.Request) {
	var refreshTokenDTO dto.RefreshTokenDTO
	if err := decodeBody(r, &refreshTokenDTO); err != nil {
		writeError(w, err)
		return
	}

	tokens, err := a.authService.RefreshTokens(r.Context(), refreshTokenDTO.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	api.SuccessJSON(w, convertTokensModelToDTO(tokens), nil)
}

func convertLoginResponse(res *model.LoginResponseModel) dto.LoginResponse {
	return dto.LoginResponse{
		User:   convertUserModelToDTO(&res.User),
		Tokens: convertTokensModelToDTO(&res.Tokens),
	}
}
