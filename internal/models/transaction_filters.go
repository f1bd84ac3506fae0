package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionFilters narrows a user's transaction listing. Nil / empty fields are ignored.
type TransactionFilters struct {
	UserID     uuid.UUID
	AccountID  *uuid.UUID
	CategoryID *uuid.UUID
	Kind       Kind
	StartDate  *time.Time
	EndDate    *time.Time
	Offset     int
	Limit      int
}
