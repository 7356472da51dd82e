package service

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/qkart/internal/constants"
	"github.com/RoyceAzure/lab/qkart/internal/infra/auth/password"
	"github.com/RoyceAzure/lab/qkart/internal/infra/repository/memory"
	"github.com/RoyceAzure/lab/qkart/internal/model"
	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	hasher  password.Hasher
	service IUserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.hasher = password.NewBcryptHasher(bcrypt.MinCost)
	s.service = NewUserService(s.store, s.hasher, decimal.NewFromInt(500))
}

func (s *UserServiceTestSuite) TestCreateUser() {
	user, err := s.service.CreateUser(s.ctx, &model.CreateUserModel{
		Name:     "crio-user",
		Email:    " Crio-User@Example.com ",
		Password: "learning1",
	})
	s.Require().NoError(err)
	s.Require().NotEmpty(user.ID)
	s.Require().Equal("crio-user@example.com", user.Email)
	s.Require().Equal(constants.DefaultAddress, user.Address)
	s.Require().False(user.HasSetNonDefaultAddress())
	s.Require().True(decimal.NewFromInt(500).Equal(user.WalletMoney))
	s.Require().NotEqual("learning1", user.Password)
	s.Require().True(s.hasher.Compare(user.Password, "learning1"))
}

func (s *UserServiceTestSuite) TestCreateUserEmailTaken() {
	arg := &model.CreateUserModel{Name: "a", Email: "dup@example.com", Password: "learning1"}
	_, err := s.service.CreateUser(s.ctx, arg)
	s.Require().NoError(err)

	_, err = s.service.CreateUser(s.ctx, arg)
	requireAnaError(s.T(), err, er.BadRequestCode, ErrEmailTaken.Error())
}

func (s *UserServiceTestSuite) TestGetUser() {
	created := newAddressedUser(s.T(), s.store, 10)

	byID, err := s.service.GetUserByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Require().Equal(created.Email, byID.Email)

	byEmail, err := s.service.GetUserByEmail(s.ctx, created.Email)
	s.Require().NoError(err)
	s.Require().Equal(created.ID, byEmail.ID)

	_, err = s.service.GetUserByID(s.ctx, "missing")
	requireAnaError(s.T(), err, er.NotFoundCode, ErrUserNotFound.Error())

	_, err = s.service.GetUserByEmail(s.ctx, "missing@example.com")
	requireAnaError(s.T(), err, er.NotFoundCode, ErrUserNotFound.Error())
}

func (s *UserServiceTestSuite) TestAddress() {
	user := newDefaultAddressUser(s.T(), s.store, 10)

	addr, err := s.service.GetUserAddressByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Equal(user.Email, addr.Email)
	s.Require().Equal(constants.DefaultAddress, addr.Address)

	newAddress, err := s.service.SetAddress(s.ctx, user, "128 Residency Road, Bangalore")
	s.Require().NoError(err)
	s.Require().Equal("128 Residency Road, Bangalore", newAddress)
	s.Require().True(user.HasSetNonDefaultAddress())

	addr, err = s.service.GetUserAddressByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Equal("128 Residency Road, Bangalore", addr.Address)
}

func (s *UserServiceTestSuite) TestSetAddressUnknownUser() {
	user := &model.UserModel{ID: "ghost", Address: constants.DefaultAddress}
	_, err := s.service.SetAddress(s.ctx, user, "somewhere")
	requireAnaError(s.T(), err, er.NotFoundCode, "")
	s.Require().Equal(constants.DefaultAddress, user.Address)
}
