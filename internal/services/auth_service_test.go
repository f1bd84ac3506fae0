package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"finance-ledger/internal/config"
	"finance-ledger/internal/dto"
	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"
	"finance-ledger/internal/repositories/repository_mocks"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	ctx             context.Context
	userRepo        *repository_mocks.MockUserRepositoryInterface
	passwordService PasswordServiceInterface
	tokenService    TokenServiceInterface
	authService     AuthServiceInterface
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()
	s.userRepo = repository_mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.passwordService = NewPasswordService(bcrypt.MinCost, 8)

	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)
	s.tokenService = NewTokenService(&config.JWTConfig{
		PrivateKey:          privateKey,
		PublicKey:           publicKey,
		Issuer:              "finance-ledger-test",
		AccessTokenDuration: time.Hour,
	})

	s.authService = NewAuthService(
		s.userRepo,
		s.passwordService,
		s.tokenService,
		NewPrometheusMetrics(prometheus.NewRegistry()),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func (s *AuthServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) TestRegister_Success() {
	req := &dto.RegisterRequest{
		Email:    strings.ToLower(gofakeit.Email()),
		Password: "ledger2024",
		Name:     gofakeit.Name(),
	}

	s.userRepo.EXPECT().GetByEmail(s.ctx, req.Email).Return(nil, repositories.ErrUserNotFound)
	s.userRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(nil)

	user, err := s.authService.Register(s.ctx, req)

	s.Require().NoError(err)
	s.Equal(req.Email, user.Email)
	s.Equal(req.Name, user.Name)
	s.NotEqual(req.Password, user.PasswordHash)
	s.True(s.passwordService.ComparePassword(req.Password, user.PasswordHash))
}

func (s *AuthServiceTestSuite) TestRegister_EmailTaken() {
	req := &dto.RegisterRequest{Email: "taken@example.com", Password: "ledger2024", Name: "Taken"}
	s.userRepo.EXPECT().GetByEmail(s.ctx, req.Email).Return(&models.User{ID: uuid.New()}, nil)

	_, err := s.authService.Register(s.ctx, req)

	s.ErrorIs(err, ErrUserAlreadyExists)
	s.Equal(KindConflict, KindOf(err))
}

func (s *AuthServiceTestSuite) TestRegister_WeakPassword() {
	req := &dto.RegisterRequest{Email: "weak@example.com", Password: "password", Name: "Weak"}
	s.userRepo.EXPECT().GetByEmail(s.ctx, req.Email).Return(nil, repositories.ErrUserNotFound)

	_, err := s.authService.Register(s.ctx, req)

	s.ErrorIs(err, ErrPasswordNoNumber)
	s.Equal(KindInvalidInput, KindOf(err))
}

func (s *AuthServiceTestSuite) TestRegister_CreateRaceMapsToConflict() {
	req := &dto.RegisterRequest{Email: "race@example.com", Password: "ledger2024", Name: "Race"}
	s.userRepo.EXPECT().GetByEmail(s.ctx, req.Email).Return(nil, repositories.ErrUserNotFound)
	s.userRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(repositories.ErrEmailExists)

	_, err := s.authService.Register(s.ctx, req)
	s.ErrorIs(err, ErrUserAlreadyExists)
}

func (s *AuthServiceTestSuite) TestLogin_Success() {
	hash, err := s.passwordService.HashPassword("ledger2024")
	s.Require().NoError(err)
	user := &models.User{ID: uuid.New(), Email: "login@example.com", PasswordHash: hash, Name: "Login"}
	s.userRepo.EXPECT().GetByEmail(s.ctx, user.Email).Return(user, nil)

	tokens, err := s.authService.Login(s.ctx, &dto.LoginRequest{Email: user.Email, Password: "ledger2024"})

	s.Require().NoError(err)
	s.Equal("Bearer", tokens.TokenType)
	s.True(tokens.ExpiresAt.After(time.Now()))

	claims, err := s.tokenService.ValidateAccessToken(tokens.AccessToken)
	s.Require().NoError(err)
	s.Equal(user.ID.String(), claims.UserID)
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	hash, err := s.passwordService.HashPassword("ledger2024")
	s.Require().NoError(err)
	user := &models.User{ID: uuid.New(), Email: "login@example.com", PasswordHash: hash}
	s.userRepo.EXPECT().GetByEmail(s.ctx, user.Email).Return(user, nil)

	_, err = s.authService.Login(s.ctx, &dto.LoginRequest{Email: user.Email, Password: "ledger2025"})

	s.ErrorIs(err, ErrInvalidCredentials)
	s.Equal(KindUnauthorized, KindOf(err))
}

func (s *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	s.userRepo.EXPECT().GetByEmail(s.ctx, "ghost@example.com").Return(nil, repositories.ErrUserNotFound)

	_, err := s.authService.Login(s.ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "ledger2024"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestGetUser_NotFound() {
	id := uuid.New()
	s.userRepo.EXPECT().GetByID(s.ctx, id).Return(nil, repositories.ErrUserNotFound)

	_, err := s.authService.GetUser(s.ctx, id)
	s.ErrorIs(err, ErrUserNotFound)
}
