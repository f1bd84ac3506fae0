package services

import (
	"errors"
	"fmt"
	"testing"

	"finance-ledger/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "account not found", err: ErrAccountNotFound, want: KindNotFound},
		{name: "wrapped transaction not found", err: fmt.Errorf("amend: %w", ErrTransactionNotFound), want: KindNotFound},
		{name: "invalid category", err: ErrInvalidCategory, want: KindInvalidReference},
		{name: "invalid account type", err: ErrInvalidAccountType, want: KindInvalidReference},
		{name: "insufficient funds", err: ErrInsufficientFunds, want: KindInsufficientFunds},
		{name: "name taken", err: ErrAccountNameTaken, want: KindConflict},
		{name: "category in use", err: ErrCategoryInUse, want: KindConflict},
		{name: "bad amount", err: models.ErrInvalidAmount, want: KindInvalidInput},
		{name: "bad period", err: models.ErrInvalidPeriod, want: KindInvalidInput},
		{name: "credentials", err: ErrInvalidCredentials, want: KindUnauthorized},
		{name: "store failure", err: errors.New("disk I/O error"), want: KindInternal},
		{name: "nil", err: nil, want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "insufficient_funds", KindInsufficientFunds.String())
	assert.Equal(t, "internal", KindInternal.String())
}
