package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidCategoryName = errors.New("category name is required and must not exceed 100 characters")

// Category labels transactions. Categories are global and carry the kind
// every transaction filed under them must have.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Kind      Kind      `gorm:"type:varchar(10);not null;index" json:"kind"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	return c.Validate()
}

func (c *Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" || len(name) > 100 {
		return ErrInvalidCategoryName
	}
	if !c.Kind.IsValid() {
		return ErrInvalidKind
	}
	return nil
}

func (c *Category) TableName() string {
	return "categories"
}

// DefaultCategories mirrors db/seeds/002_categories.sql for databases built
// without the SQL migration runner.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Salary", Kind: KindIncome},
		{Name: "Freelance", Kind: KindIncome},
		{Name: "Investments", Kind: KindIncome},
		{Name: "Groceries", Kind: KindExpense},
		{Name: "Transport", Kind: KindExpense},
		{Name: "Housing", Kind: KindExpense},
		{Name: "Utilities", Kind: KindExpense},
		{Name: "Entertainment", Kind: KindExpense},
		{Name: "Health", Kind: KindExpense},
	}
}
