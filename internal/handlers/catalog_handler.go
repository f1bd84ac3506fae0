package handlers

import (
	"net/http"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/errors"
	"finance-ledger/internal/models"
	"finance-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the shared reference data: categories and account types
type CatalogHandler struct {
	categoryService    services.CategoryServiceInterface
	accountTypeService services.AccountTypeServiceInterface
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(
	categoryService services.CategoryServiceInterface,
	accountTypeService services.AccountTypeServiceInterface,
) *CatalogHandler {
	return &CatalogHandler{
		categoryService:    categoryService,
		accountTypeService: accountTypeService,
	}
}

// ListCategories lists categories, optionally only those of one kind
// @Summary List categories
// @Tags Categories
// @Produce json
// @Param kind query string false "income or expense (ingreso / gasto accepted)"
// @Success 200 {object} SuccessResponse{data=[]models.Category}
// @Failure 400 {object} errors.ErrorResponse "TRANSACTION_006 - Invalid kind"
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	var kind models.Kind
	if raw := firstQueryParam(c, "kind", "tipo"); raw != "" {
		parsed, err := models.ParseKind(raw)
		if err != nil {
			return SendError(c, errors.TransactionInvalidKind)
		}
		kind = parsed
	}

	categories, err := h.categoryService.ListCategories(c.Request().Context(), kind)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: categories})
}

// GetCategory
// @Summary Get category
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Param id path string true "Category ID (UUID)"
// @Success 200 {object} SuccessResponse{data=models.Category}
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_001 - Category not found"
// @Router /categories/{id} [get]
func (h *CatalogHandler) GetCategory(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.CategoryInvalidID)
	}

	category, err := h.categoryService.GetCategory(c.Request().Context(), id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: category})
}

// CreateCategory
// @Summary Create category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CategoryRequest true "Category"
// @Success 201 {object} SuccessResponse{data=models.Category}
// @Router /categories [post]
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req dto.CategoryRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	kind, err := models.ParseKind(req.Kind)
	if err != nil {
		return SendError(c, errors.TransactionInvalidKind)
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), req.Name, kind)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{Data: category, Message: "Category created"})
}

// UpdateCategory renames a category. Its kind can only change while no transaction uses it.
// @Summary Update category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Category ID (UUID)"
// @Param request body dto.CategoryRequest true "Category"
// @Success 200 {object} SuccessResponse{data=models.Category}
// @Failure 409 {object} errors.ErrorResponse "CATEGORY_002 - Category in use"
// @Router /categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.CategoryInvalidID)
	}

	var req dto.CategoryRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	kind, err := models.ParseKind(req.Kind)
	if err != nil {
		return SendError(c, errors.TransactionInvalidKind)
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), id, req.Name, kind)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: category, Message: "Category updated"})
}

// DeleteCategory
// @Summary Delete category
// @Tags Categories
// @Security BearerAuth
// @Param id path string true "Category ID (UUID)"
// @Success 204
// @Failure 409 {object} errors.ErrorResponse "CATEGORY_002 - Category in use"
// @Router /categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.CategoryInvalidID)
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), id); err != nil {
		return sendServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ListAccountTypes(c echo.Context) error {
	types, err := h.accountTypeService.ListAccountTypes(c.Request().Context())
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Data: types})
}

func (h *CatalogHandler) CreateAccountType(c echo.Context) error {
	var req dto.AccountTypeRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	accountType, err := h.accountTypeService.CreateAccountType(c.Request().Context(), req.Name)
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, SuccessResponse{Data: accountType, Message: "Account type created"})
}

func (h *CatalogHandler) UpdateAccountType(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("id: invalid UUID"))
	}

	var req dto.AccountTypeRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	accountType, err := h.accountTypeService.UpdateAccountType(c.Request().Context(), id, req.Name)
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Data: accountType, Message: "Account type updated"})
}

// DeleteAccountType refuses while any account still uses the type
func (h *CatalogHandler) DeleteAccountType(c echo.Context) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("id: invalid UUID"))
	}

	if err := h.accountTypeService.DeleteAccountType(c.Request().Context(), id); err != nil {
		return sendServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
