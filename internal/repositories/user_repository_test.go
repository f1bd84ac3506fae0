package repositories

import (
	"context"
	"strings"
	"testing"

	"finance-ledger/internal/database"
	"finance-ledger/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestUserRepository(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}

type UserRepositorySuite struct {
	suite.Suite
	ctx  context.Context
	db   *database.DB
	repo UserRepositoryInterface
}

func (s *UserRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.db = database.SetupTestDB(s.T())
	s.repo = NewUserRepository(s.db.DB)
}

func (s *UserRepositorySuite) newUser() *models.User {
	return &models.User{
		Email:        strings.ToLower(gofakeit.Email()),
		PasswordHash: "hashed_password",
		Name:         gofakeit.Name(),
	}
}

func (s *UserRepositorySuite) TestCreate() {
	user := s.newUser()

	s.Require().NoError(s.repo.Create(s.ctx, user))
	s.NotEqual(uuid.Nil, user.ID)
	s.NotZero(user.CreatedAt)
}

func (s *UserRepositorySuite) TestCreate_DuplicateEmail() {
	user := s.newUser()
	s.Require().NoError(s.repo.Create(s.ctx, user))

	dup := s.newUser()
	dup.Email = user.Email
	s.ErrorIs(s.repo.Create(s.ctx, dup), ErrEmailExists)
}

func (s *UserRepositorySuite) TestGetByID() {
	user := s.newUser()
	s.Require().NoError(s.repo.Create(s.ctx, user))

	found, err := s.repo.GetByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(user.Email, found.Email)
	s.Equal(user.Name, found.Name)

	_, err = s.repo.GetByID(s.ctx, uuid.New())
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *UserRepositorySuite) TestGetByEmail_NormalizesInput() {
	user := s.newUser()
	s.Require().NoError(s.repo.Create(s.ctx, user))

	found, err := s.repo.GetByEmail(s.ctx, "  "+strings.ToUpper(user.Email)+" ")
	s.Require().NoError(err)
	s.Equal(user.ID, found.ID)

	_, err = s.repo.GetByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, ErrUserNotFound)
}
