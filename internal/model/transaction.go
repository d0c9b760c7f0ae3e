package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkade/saffron/internal/common"
)

// DateLayout is the calendar-date format used everywhere transactions are
// serialized: profile files, CSV import, and CSV export.
const DateLayout = "2006-01-02"

// Transaction represents a single dated, categorized ledger entry.
//
// Amounts are signed: income is positive, expense negative. The sign is
// derived from the category kind at construction, so a transaction can never
// disagree with its category.
type Transaction struct {
	Date       time.Time
	Amount     decimal.Decimal
	ID         string
	CategoryID string
	Note       string

	extra map[string]json.RawMessage
}

// NewTransaction creates a validated transaction for the given category. The
// magnitude of amount is taken; its sign is set by the category kind.
func NewTransaction(date time.Time, amount decimal.Decimal, category Category, note string) (Transaction, error) {
	if date.IsZero() {
		return Transaction{}, fmt.Errorf("%w: transaction date is required", common.ErrInvalidDate)
	}

	return Transaction{
		ID:         uuid.NewString(),
		Date:       normalizeDate(date),
		Amount:     SignedAmount(amount, category.Kind),
		CategoryID: category.ID,
		Note:       note,
	}, nil
}

// SignedAmount applies the sign convention for kind to amount.
func SignedAmount(amount decimal.Decimal, kind CategoryKind) decimal.Decimal {
	if kind == KindExpense {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

// normalizeDate strips the time-of-day component; the ledger works in whole
// calendar days.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// transactionJSON is the serialized shape of a Transaction.
type transactionJSON struct {
	ID         string          `json:"id"`
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID string          `json:"category_id"`
	Note       string          `json:"note,omitempty"`
}

var transactionKnownFields = knownFields[transactionJSON]()

// MarshalJSON serializes the transaction, re-emitting retained unknown fields.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(transactionJSON{
		ID:         t.ID,
		Date:       t.Date.Format(DateLayout),
		Amount:     t.Amount,
		CategoryID: t.CategoryID,
		Note:       t.Note,
	}, t.extra)
}

// UnmarshalJSON restores the transaction and retains unknown fields.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var known transactionJSON
	extra, err := unmarshalWithExtra(data, &known, transactionKnownFields)
	if err != nil {
		return fmt.Errorf("failed to decode transaction: %w", err)
	}

	date, err := time.Parse(DateLayout, known.Date)
	if err != nil {
		return fmt.Errorf("failed to decode transaction date %q: %w", known.Date, err)
	}

	t.ID = known.ID
	t.Date = date
	t.Amount = known.Amount
	t.CategoryID = known.CategoryID
	t.Note = known.Note
	t.extra = extra
	return nil
}
