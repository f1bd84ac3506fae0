package handlers

import (
	"net/http"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/errors"
	"finance-ledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService services.AccountServiceInterface
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService services.AccountServiceInterface) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccount opens an account for the authenticated user
// @Summary Create a new account
// @Description Create a named account of a given type with an optional non-negative opening balance
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAccountRequest true "Account creation details"
// @Success 201 {object} SuccessResponse{data=dto.AccountResponse} "Account created successfully"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body or validation error"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 409 {object} errors.ErrorResponse "ACCOUNT_002 - Account name already used"
// @Failure 422 {object} errors.ErrorResponse "ACCOUNT_006 - Account type does not exist"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateAccountRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	accountTypeID, err := uuid.Parse(req.AccountTypeID)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("account_type_id: invalid UUID"))
	}

	account, err := h.accountService.CreateAccount(c.Request().Context(), userID, req.Name, accountTypeID, req.OpeningBalance)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    dto.NewAccountResponse(account),
		Message: "Account created successfully",
	})
}

// GetAccount retrieves a specific account by ID
// @Summary Get account
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Account ID (UUID)"
// @Success 200 {object} SuccessResponse{data=dto.AccountResponse}
// @Failure 400 {object} errors.ErrorResponse "ACCOUNT_004 - Invalid account ID format"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Router /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accountID, ok := parseUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.AccountInvalidID)
	}

	account, err := h.accountService.GetAccount(c.Request().Context(), userID, accountID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: dto.NewAccountResponse(account)})
}

// GetUserAccounts lists all accounts of the authenticated user
// @Summary List accounts
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]dto.AccountResponse}
// @Router /accounts [get]
func (h *AccountHandler) GetUserAccounts(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accounts, err := h.accountService.GetUserAccounts(c.Request().Context(), userID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: dto.NewAccountResponses(accounts),
		Meta: map[string]int{"total": len(accounts)},
	})
}

// UpdateAccount renames an account or changes its type. The balance is never edited here.
// @Summary Update account
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Account ID (UUID)"
// @Param request body dto.UpdateAccountRequest true "Fields to change"
// @Success 200 {object} SuccessResponse{data=dto.AccountResponse}
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Failure 409 {object} errors.ErrorResponse "ACCOUNT_002 - Account name already used"
// @Router /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accountID, ok := parseUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.AccountInvalidID)
	}

	var req dto.UpdateAccountRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	var accountTypeID *uuid.UUID
	if req.AccountTypeID != nil {
		id, err := uuid.Parse(*req.AccountTypeID)
		if err != nil {
			return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("account_type_id: invalid UUID"))
		}
		accountTypeID = &id
	}

	account, err := h.accountService.UpdateAccount(c.Request().Context(), userID, accountID, req.Name, accountTypeID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    dto.NewAccountResponse(account),
		Message: "Account updated successfully",
	})
}

// DeleteAccount removes an account that has no transactions
// @Summary Delete account
// @Tags Accounts
// @Security BearerAuth
// @Param id path string true "Account ID (UUID)"
// @Success 204 "Account deleted"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Failure 409 {object} errors.ErrorResponse "ACCOUNT_003 - Account has transactions"
// @Router /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accountID, ok := parseUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.AccountInvalidID)
	}

	if err := h.accountService.DeleteAccount(c.Request().Context(), userID, accountID); err != nil {
		return sendServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetFinancialSummary totals the user's balances overall and per account type
// @Summary Account summary
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=models.FinancialSummary}
// @Router /accounts/summary [get]
func (h *AccountHandler) GetFinancialSummary(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	summary, err := h.accountService.GetFinancialSummary(c.Request().Context(), userID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: summary})
}
