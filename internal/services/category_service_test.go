package services

import (
	"context"
	"testing"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"
	"finance-ledger/internal/repositories/repository_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type CategoryServiceTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	ctx          context.Context
	categoryRepo *repository_mocks.MockCategoryRepositoryInterface
	service      CategoryServiceInterface
}

func TestCategoryServiceSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}

func (s *CategoryServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()
	s.categoryRepo = repository_mocks.NewMockCategoryRepositoryInterface(s.ctrl)
	s.service = NewCategoryService(s.categoryRepo)
}

func (s *CategoryServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CategoryServiceTestSuite) TestListCategories_ByKind() {
	want := []models.Category{{ID: uuid.New(), Name: "Food", Kind: models.KindExpense}}
	s.categoryRepo.EXPECT().List(s.ctx, models.KindExpense).Return(want, nil)

	got, err := s.service.ListCategories(s.ctx, models.KindExpense)
	s.NoError(err)
	s.Equal(want, got)
}

func (s *CategoryServiceTestSuite) TestListCategories_InvalidKind() {
	_, err := s.service.ListCategories(s.ctx, models.Kind("loan"))
	s.ErrorIs(err, models.ErrInvalidKind)
}

func (s *CategoryServiceTestSuite) TestCreateCategory() {
	s.categoryRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(nil)

	category, err := s.service.CreateCategory(s.ctx, "  Rent ", models.KindExpense)
	s.NoError(err)
	s.Equal("Rent", category.Name)
	s.Equal(models.KindExpense, category.Kind)
}

func (s *CategoryServiceTestSuite) TestCreateCategory_InvalidName() {
	_, err := s.service.CreateCategory(s.ctx, "   ", models.KindIncome)
	s.ErrorIs(err, models.ErrInvalidCategoryName)
}

func (s *CategoryServiceTestSuite) TestGetCategory_NotFound() {
	id := uuid.New()
	s.categoryRepo.EXPECT().GetByID(s.ctx, id).Return(nil, repositories.ErrCategoryNotFound)

	_, err := s.service.GetCategory(s.ctx, id)
	s.ErrorIs(err, ErrCategoryNotFound)
	s.Equal(KindNotFound, KindOf(err))
}

func (s *CategoryServiceTestSuite) TestUpdateCategory_KindChangeWhileInUse() {
	category := &models.Category{ID: uuid.New(), Name: "Bonus", Kind: models.KindIncome}
	s.categoryRepo.EXPECT().GetByID(s.ctx, category.ID).Return(category, nil)
	s.categoryRepo.EXPECT().CountTransactions(s.ctx, category.ID).Return(int64(2), nil)

	_, err := s.service.UpdateCategory(s.ctx, category.ID, "Bonus", models.KindExpense)
	s.ErrorIs(err, ErrCategoryInUse)
}

func (s *CategoryServiceTestSuite) TestUpdateCategory_RenameOnly() {
	category := &models.Category{ID: uuid.New(), Name: "Bonus", Kind: models.KindIncome}
	s.categoryRepo.EXPECT().GetByID(s.ctx, category.ID).Return(category, nil)
	s.categoryRepo.EXPECT().Update(s.ctx, category).Return(nil)

	updated, err := s.service.UpdateCategory(s.ctx, category.ID, "Yearly bonus", models.KindIncome)
	s.NoError(err)
	s.Equal("Yearly bonus", updated.Name)
}

func (s *CategoryServiceTestSuite) TestDeleteCategory_InUse() {
	id := uuid.New()
	s.categoryRepo.EXPECT().GetByID(s.ctx, id).Return(&models.Category{ID: id}, nil)
	s.categoryRepo.EXPECT().CountTransactions(s.ctx, id).Return(int64(1), nil)

	err := s.service.DeleteCategory(s.ctx, id)
	s.ErrorIs(err, ErrCategoryInUse)
	s.Equal(KindConflict, KindOf(err))
}

func (s *CategoryServiceTestSuite) TestDeleteCategory_Success() {
	id := uuid.New()
	s.categoryRepo.EXPECT().GetByID(s.ctx, id).Return(&models.Category{ID: id}, nil)
	s.categoryRepo.EXPECT().CountTransactions(s.ctx, id).Return(int64(0), nil)
	s.categoryRepo.EXPECT().Delete(s.ctx, id).Return(nil)

	s.NoError(s.service.DeleteCategory(s.ctx, id))
}
