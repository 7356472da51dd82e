package service

import (
	"context"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/constants"
	"github.com/RoyceAzure/lab/qkart/internal/infra/auth/password"
	"github.com/RoyceAzure/lab/qkart/internal/infra/auth/token"
	"github.com/RoyceAzure/lab/qkart/internal/infra/repository/memory"
	"github.com/RoyceAzure/lab/qkart/internal/model"
	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/RoyceAzure/rj/util/random"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	store      *memory.Store
	tokenMaker *token.JWTMaker
	service    *AuthService
	verifier   *AuthVerifier
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()

	maker, err := token.NewJWTMaker(random.RandomString(32))
	s.Require().NoError(err)
	s.tokenMaker = maker

	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	userService := NewUserService(s.store, hasher, decimal.NewFromInt(500))
	s.service = NewAuthService(userService, hasher, maker, 30*time.Minute, 30*24*time.Hour).(*AuthService)
	s.verifier = NewAuthVerifier(s.store)
}

func (s *AuthServiceTestSuite) register(email string) *model.LoginResponseModel {
	res, err := s.service.Register(s.ctx, &model.CreateUserModel{
		Name:     "crio-user",
		Email:    email,
		Password: "learning1",
	})
	s.Require().NoError(err)
	return res
}

func (s *AuthServiceTestSuite) TestRegisterIssuesUsableAccessToken() {
	res := s.register("crio@example.com")
	s.Require().NotEmpty(res.User.ID)
	s.Require().NotEqual(res.Tokens.Access.Token, res.Tokens.Refresh.Token)
	s.Require().True(res.Tokens.Refresh.Expires.After(res.Tokens.Access.Expires))

	payload, err := s.tokenMaker.DecodeToken(res.Tokens.Access.Token)
	s.Require().NoError(err)
	s.Require().Equal(constants.AccessToken, payload.Type)

	user, found, err := s.verifier.Verify(s.ctx, payload)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Require().Equal(res.User.ID, user.ID)
}

func (s *AuthServiceTestSuite) TestRegisterTwice() {
	s.register("crio@example.com")

	_, err := s.service.Register(s.ctx, &model.CreateUserModel{
		Name:     "other",
		Email:    "crio@example.com",
		Password: "learning2",
	})
	requireAnaError(s.T(), err, er.BadRequestCode, ErrEmailTaken.Error())
}

func (s *AuthServiceTestSuite) TestLogin() {
	registered := s.register("crio@example.com")

	res, err := s.service.Login(s.ctx, "crio@example.com", "learning1")
	s.Require().NoError(err)
	s.Require().Equal(registered.User.ID, res.User.ID)
	s.Require().NotEmpty(res.Tokens.Access.Token)

	_, err = s.service.Login(s.ctx, "crio@example.com", "wrong-password")
	requireAnaError(s.T(), err, er.UnauthenticatedCode, ErrIncorrectCredentials.Error())

	_, err = s.service.Login(s.ctx, "nobody@example.com", "learning1")
	requireAnaError(s.T(), err, er.UnauthenticatedCode, ErrIncorrectCredentials.Error())
}

func (s *AuthServiceTestSuite) TestRefreshTokens() {
	registered := s.register("crio@example.com")

	tokens, err := s.service.RefreshTokens(s.ctx, registered.Tokens.Refresh.Token)
	s.Require().NoError(err)

	payload, err := s.tokenMaker.DecodeToken(tokens.Access.Token)
	s.Require().NoError(err)
	s.Require().Equal(registered.User.ID, payload.Sub)
	s.Require().Equal(constants.AccessToken, payload.Type)
}

func (s *AuthServiceTestSuite) TestRefreshWithAccessTokenFails() {
	registered := s.register("crio@example.com")

	_, err := s.service.RefreshTokens(s.ctx, registered.Tokens.Access.Token)
	requireAnaError(s.T(), err, er.UnauthenticatedCode, ErrInvalidTokenType.Error())
}

func (s *AuthServiceTestSuite) TestRefreshExpired() {
	registered := s.register("crio@example.com")
	s.service.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }

	_, err := s.service.RefreshTokens(s.ctx, registered.Tokens.Refresh.Token)
	requireAnaError(s.T(), err, er.UnauthenticatedCode, ErrTokenExpired.Error())
}

func (s *AuthServiceTestSuite) TestRefreshInvalidToken() {
	_, err := s.service.RefreshTokens(s.ctx, "garbage")
	requireAnaError(s.T(), err, er.UnauthenticatedCode, ErrPleaseAuthenticate.Error())
}

func (s *AuthServiceTestSuite) TestRefreshUnknownUser() {
	refresh, _, err := s.tokenMaker.CreateToken("ghost", constants.RefreshToken, time.Hour)
	s.Require().NoError(err)

	_, err = s.service.RefreshTokens(s.ctx, refresh)
	requireAnaError(s.T(), err, er.UnauthenticatedCode, ErrPleaseAuthenticate.Error())
}
