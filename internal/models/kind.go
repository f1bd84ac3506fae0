package models

import (
	"errors"
	"strings"
)

// Kind distinguishes money flowing into an account from money flowing out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

var ErrInvalidKind = errors.New("kind must be income or expense")

// ParseKind accepts the canonical names and the legacy ingreso/gasto aliases.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "income", "ingreso":
		return KindIncome, nil
	case "expense", "gasto":
		return KindExpense, nil
	default:
		return "", ErrInvalidKind
	}
}

func (k Kind) IsValid() bool {
	return k == KindIncome || k == KindExpense
}

func (k Kind) String() string {
	return string(k)
}
