// Package model defines the core ledger data types.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkade/saffron/internal/common"
)

// CategoryKind indicates whether a category holds income or expense transactions.
type CategoryKind string

const (
	// KindIncome represents categories for income transactions.
	KindIncome CategoryKind = "income"
	// KindExpense represents categories for expense transactions.
	KindExpense CategoryKind = "expense"
)

// ParseCategoryKind converts a user-supplied string to a CategoryKind.
func ParseCategoryKind(s string) (CategoryKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return KindIncome, nil
	case "expense":
		return KindExpense, nil
	default:
		return "", fmt.Errorf("%w: kind must be income or expense, got %q", common.ErrInvalidConfig, s)
	}
}

// Category represents a named income or expense bucket, optionally capped by
// a monthly budget.
type Category struct {
	CreatedAt     time.Time
	MonthlyBudget *decimal.Decimal
	ID            string
	Name          string
	Kind          CategoryKind

	// extra holds unknown JSON fields so rewriting a profile written by a
	// newer version does not drop data.
	extra map[string]json.RawMessage
}

// NewCategory creates a validated category. budget may be nil for no cap.
func NewCategory(name string, kind CategoryKind, budget *decimal.Decimal) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: category name cannot be empty", common.ErrInvalidConfig)
	}
	if kind != KindIncome && kind != KindExpense {
		return Category{}, fmt.Errorf("%w: unknown category kind %q", common.ErrInvalidConfig, kind)
	}
	if budget != nil && budget.IsNegative() {
		return Category{}, fmt.Errorf("%w: monthly budget %s is negative", common.ErrInvalidAmount, budget)
	}

	return Category{
		ID:            uuid.NewString(),
		Name:          name,
		Kind:          kind,
		MonthlyBudget: budget,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}, nil
}

// categoryJSON is the serialized shape of a Category.
type categoryJSON struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Kind          CategoryKind     `json:"kind"`
	MonthlyBudget *decimal.Decimal `json:"monthly_budget,omitempty"`
	CreatedAt     string           `json:"created_at"`
}

var categoryKnownFields = knownFields[categoryJSON]()

// MarshalJSON serializes the category, re-emitting any unknown fields that
// were present when it was loaded.
func (c Category) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(categoryJSON{
		ID:            c.ID,
		Name:          c.Name,
		Kind:          c.Kind,
		MonthlyBudget: c.MonthlyBudget,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}, c.extra)
}

// UnmarshalJSON restores the category and retains unknown fields.
func (c *Category) UnmarshalJSON(data []byte) error {
	var known categoryJSON
	extra, err := unmarshalWithExtra(data, &known, categoryKnownFields)
	if err != nil {
		return fmt.Errorf("failed to decode category: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339, known.CreatedAt)
	if err != nil && known.CreatedAt != "" {
		return fmt.Errorf("failed to decode category created_at: %w", err)
	}

	c.ID = known.ID
	c.Name = known.Name
	c.Kind = known.Kind
	c.MonthlyBudget = known.MonthlyBudget
	c.CreatedAt = createdAt
	c.extra = extra
	return nil
}
