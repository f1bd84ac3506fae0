package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// PasswordServiceTestSuite defines the test suite for PasswordService
type PasswordServiceTestSuite struct {
	suite.Suite
	service PasswordServiceInterface
}

func (s *PasswordServiceTestSuite) SetupTest() {
	s.service = NewPasswordService(bcrypt.MinCost, 8)
}

func TestPasswordServiceSuite(t *testing.T) {
	suite.Run(t, new(PasswordServiceTestSuite))
}

func (s *PasswordServiceTestSuite) TestValidatePassword() {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "valid", password: "ledger2024"},
		{name: "minimum valid", password: "abcdefg1"},
		{name: "empty", password: "", wantErr: ErrPasswordEmpty},
		{name: "too short", password: "abc1", wantErr: ErrPasswordTooShort},
		{name: "too long", password: strings.Repeat("a1", 37), wantErr: ErrPasswordTooLong},
		{name: "no letter", password: "1234567890", wantErr: ErrPasswordNoLetter},
		{name: "no number", password: "onlyletters", wantErr: ErrPasswordNoNumber},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			err := s.service.ValidatePassword(tt.password)
			if tt.wantErr == nil {
				s.NoError(err)
				return
			}
			s.ErrorIs(err, tt.wantErr)
		})
	}
}

func (s *PasswordServiceTestSuite) TestNewPasswordService_Defaults() {
	svc := NewPasswordService(0, 0).(*PasswordService)
	s.Equal(DefaultBCryptCost, svc.cost)
	s.Equal(DefaultMinPasswordLength, svc.minLength)
}

func (s *PasswordServiceTestSuite) TestHashPassword_ValidPassword() {
	hash, err := s.service.HashPassword("ledger2024")

	s.NoError(err)
	s.NotEmpty(hash)
	s.NotEqual("ledger2024", hash)
	s.True(strings.HasPrefix(hash, "$2a$"))
}

func (s *PasswordServiceTestSuite) TestHashPassword_InvalidPassword() {
	hash, err := s.service.HashPassword("short")
	s.ErrorIs(err, ErrPasswordTooShort)
	s.Empty(hash)
	s.Equal(KindInvalidInput, KindOf(err))
}

func (s *PasswordServiceTestSuite) TestComparePassword() {
	hash, err := s.service.HashPassword("ledger2024")
	s.Require().NoError(err)

	s.True(s.service.ComparePassword("ledger2024", hash))
	s.False(s.service.ComparePassword("ledger2025", hash))
	s.False(s.service.ComparePassword("ledger2024", "not-a-hash"))
}
