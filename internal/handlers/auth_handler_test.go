package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/models"
	"finance-ledger/internal/services"
	"finance-ledger/internal/services/service_mocks"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestAuthHandler(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

type AuthHandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	authService *service_mocks.MockAuthServiceInterface
	handler     *AuthHandler
	e           *echo.Echo
}

func (s *AuthHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.authService = service_mocks.NewMockAuthServiceInterface(s.ctrl)
	s.handler = NewAuthHandler(s.authService)
	s.e = newTestEcho()
}

func (s *AuthHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AuthHandlerSuite) TestRegister() {
	s.Run("successful registration", func() {
		email := gofakeit.Email()
		body := map[string]string{"email": email, "password": "Secure123", "name": gofakeit.Name()}
		c, rec := newContext(s.e, http.MethodPost, "/api/v1/auth/register", body, nil)

		s.authService.EXPECT().Register(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *dto.RegisterRequest) (*models.User, error) {
				s.Equal(email, req.Email)
				return &models.User{ID: uuid.New(), Email: req.Email, Name: req.Name, CreatedAt: time.Now()}, nil
			})

		s.NoError(s.handler.Register(c))
		s.Equal(http.StatusCreated, rec.Code)

		var profile dto.UserProfileResponse
		s.Require().NoError(decodeData(rec, &profile))
		s.Equal(email, profile.Email)
		s.NotContains(rec.Body.String(), "Secure123")
	})

	s.Run("email already registered", func() {
		body := map[string]string{"email": gofakeit.Email(), "password": "Secure123", "name": "Ana"}
		c, rec := newContext(s.e, http.MethodPost, "/api/v1/auth/register", body, nil)
		s.authService.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, services.ErrUserAlreadyExists)

		s.NoError(s.handler.Register(c))
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("AUTH_005", decodeError(rec).Error.Code)
	})

	s.Run("weak password", func() {
		body := map[string]string{"email": gofakeit.Email(), "password": "onlyletters", "name": "Ana"}
		c, rec := newContext(s.e, http.MethodPost, "/api/v1/auth/register", body, nil)
		s.authService.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, services.ErrPasswordNoNumber)

		s.NoError(s.handler.Register(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		resp := decodeError(rec)
		s.Equal("VALIDATION_001", resp.Error.Code)
		s.Contains(resp.Error.Details, services.ErrPasswordNoNumber.Error())
	})

	s.Run("invalid email", func() {
		body := map[string]string{"email": "not-an-email", "password": "Secure123", "name": "Ana"}
		c, rec := newContext(s.e, http.MethodPost, "/api/v1/auth/register", body, nil)

		s.NoError(s.handler.Register(c))
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *AuthHandlerSuite) TestLogin() {
	s.Run("success", func() {
		body := map[string]string{"email": "ana@example.com", "password": "Secure123"}
		c, rec := newContext(s.e, http.MethodPost, "/api/v1/auth/login", body, nil)
		expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
		s.authService.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(&dto.TokenResponse{AccessToken: "jwt", TokenType: "Bearer", ExpiresAt: expires}, nil)

		s.NoError(s.handler.Login(c))
		s.Equal(http.StatusOK, rec.Code)

		var tokens dto.TokenResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &tokens))
		s.Equal("jwt", tokens.AccessToken)
		s.Equal("Bearer", tokens.TokenType)
	})

	s.Run("bad credentials", func() {
		body := map[string]string{"email": "ana@example.com", "password": "wrong"}
		c, rec := newContext(s.e, http.MethodPost, "/api/v1/auth/login", body, nil)
		s.authService.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, services.ErrInvalidCredentials)

		s.NoError(s.handler.Login(c))
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Equal("AUTH_001", decodeError(rec).Error.Code)
	})
}

func (s *AuthHandlerSuite) TestMe() {
	s.Run("authenticated", func() {
		userID := uuid.New()
		c, rec := newContext(s.e, http.MethodGet, "/api/v1/auth/me", nil, &userID)
		s.authService.EXPECT().GetUser(gomock.Any(), userID).
			Return(&models.User{ID: userID, Email: "ana@example.com", Name: "Ana"}, nil)

		s.NoError(s.handler.Me(c))
		s.Equal(http.StatusOK, rec.Code)

		var profile dto.UserProfileResponse
		s.Require().NoError(decodeData(rec, &profile))
		s.Equal(userID.String(), profile.ID)
	})

	s.Run("no user in context", func() {
		c, rec := newContext(s.e, http.MethodGet, "/api/v1/auth/me", nil, nil)

		s.NoError(s.handler.Me(c))
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Equal("AUTH_002", decodeError(rec).Error.Code)
	})
}
