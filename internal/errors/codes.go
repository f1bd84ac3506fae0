package errors

// ErrorCode is the stable, machine-readable code carried in every API error body
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials ErrorCode = "AUTH_001"
	AuthMissingToken       ErrorCode = "AUTH_002"
	AuthExpiredToken       ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat ErrorCode = "AUTH_004"
	AuthEmailTaken         ErrorCode = "AUTH_005"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidEmail  ErrorCode = "VALIDATION_005"
	ValidationInvalidDate   ErrorCode = "VALIDATION_006"
)

// Account error codes (ACCOUNT_*)
const (
	AccountNotFound           ErrorCode = "ACCOUNT_001"
	AccountNameTaken          ErrorCode = "ACCOUNT_002"
	AccountHasTransactions    ErrorCode = "ACCOUNT_003"
	AccountInvalidID          ErrorCode = "ACCOUNT_004"
	AccountInvalidOpening     ErrorCode = "ACCOUNT_005"
	AccountInvalidAccountType ErrorCode = "ACCOUNT_006"
)

// Account type error codes (ACCOUNT_TYPE_*)
const (
	AccountTypeNotFound  ErrorCode = "ACCOUNT_TYPE_001"
	AccountTypeNameTaken ErrorCode = "ACCOUNT_TYPE_002"
	AccountTypeInUse     ErrorCode = "ACCOUNT_TYPE_003"
)

// Category error codes (CATEGORY_*)
const (
	CategoryNotFound  ErrorCode = "CATEGORY_001"
	CategoryInUse     ErrorCode = "CATEGORY_002"
	CategoryInvalidID ErrorCode = "CATEGORY_003"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound          ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount     ErrorCode = "TRANSACTION_002"
	TransactionInsufficientFunds ErrorCode = "TRANSACTION_003"
	TransactionInvalidID         ErrorCode = "TRANSACTION_004"
	TransactionInvalidPeriod     ErrorCode = "TRANSACTION_005"
	TransactionInvalidKind       ErrorCode = "TRANSACTION_006"
	TransactionInvalidCategory   ErrorCode = "TRANSACTION_007"
	TransactionInvalidExport     ErrorCode = "TRANSACTION_008"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_004"
	SystemRouteNotFound      ErrorCode = "SYSTEM_005"
)

var errorMessages = map[ErrorCode]string{
	AuthInvalidCredentials: "Invalid email or password",
	AuthMissingToken:       "Authorization token is required",
	AuthExpiredToken:       "Authorization token has expired",
	AuthInvalidTokenFormat: "Invalid authorization token format",
	AuthEmailTaken:         "A user with this email already exists",

	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidEmail:  "Invalid email address format",
	ValidationInvalidDate:   "Invalid date format or range",

	AccountNotFound:           "Account not found",
	AccountNameTaken:          "An account with this name already exists",
	AccountHasTransactions:    "Account has transactions and cannot be deleted",
	AccountInvalidID:          "Invalid account ID format",
	AccountInvalidOpening:     "Opening balance must not be negative",
	AccountInvalidAccountType: "Account type does not exist",

	AccountTypeNotFound:  "Account type not found",
	AccountTypeNameTaken: "An account type with this name already exists",
	AccountTypeInUse:     "Account type is assigned to accounts and cannot be deleted",

	CategoryNotFound:  "Category not found",
	CategoryInUse:     "Category is referenced by transactions and cannot be deleted",
	CategoryInvalidID: "Invalid category ID format",

	TransactionNotFound:          "Transaction not found",
	TransactionInvalidAmount:     "Invalid transaction amount",
	TransactionInsufficientFunds: "Insufficient account balance for this transaction",
	TransactionInvalidID:         "Invalid transaction ID format",
	TransactionInvalidPeriod:     "Invalid summary period",
	TransactionInvalidKind:       "Invalid transaction kind",
	TransactionInvalidCategory:   "Category does not exist or does not match the transaction kind",
	TransactionInvalidExport:     "Unsupported export format",

	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemRouteNotFound:      "Resource not found",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
