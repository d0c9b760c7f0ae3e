package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkade/saffron/internal/common"
	"github.com/mkade/saffron/internal/model"
	"github.com/mkade/saffron/internal/service"
)

// TransactionUpdate carries the fields of an edit; nil fields are unchanged.
type TransactionUpdate struct {
	Date       *time.Time
	Amount     *decimal.Decimal
	CategoryID *string
	Note       *string
}

// AddTransaction records a new transaction against an existing category and
// persists the profile.
func (l *Ledger) AddTransaction(ctx context.Context, date time.Time, amount decimal.Decimal, categoryID, note string) (model.Transaction, error) {
	cat := l.profile.CategoryByID(categoryID)
	if cat == nil {
		return model.Transaction{}, fmt.Errorf("%w: %s", common.ErrUnknownCategory, categoryID)
	}

	txn, err := model.NewTransaction(date, amount, *cat, note)
	if err != nil {
		return model.Transaction{}, err
	}

	l.profile.Transactions = append(l.profile.Transactions, txn)
	if err := l.persist(ctx); err != nil {
		return model.Transaction{}, err
	}

	slog.Debug("added transaction",
		"id", txn.ID,
		"date", txn.Date.Format(model.DateLayout),
		"amount", txn.Amount.String(),
		"category", cat.Name)
	return txn, nil
}

// AddTransactions records a batch in one durable write, preserving the order
// given. Used by the import adapters so a file import commits atomically.
func (l *Ledger) AddTransactions(ctx context.Context, txns []model.Transaction) error {
	for i := range txns {
		if l.profile.CategoryByID(txns[i].CategoryID) == nil {
			return fmt.Errorf("%w: %s", common.ErrUnknownCategory, txns[i].CategoryID)
		}
	}

	l.profile.Transactions = append(l.profile.Transactions, txns...)
	if err := l.persist(ctx); err != nil {
		return err
	}

	slog.Info("added transaction batch", "count", len(txns))
	return nil
}

// EditTransaction applies the non-nil fields of update to an existing
// transaction. Amount and category edits re-derive the stored sign from the
// (possibly new) category kind.
func (l *Ledger) EditTransaction(ctx context.Context, id string, update TransactionUpdate) (model.Transaction, error) {
	idx := l.profile.TransactionByID(id)
	if idx < 0 {
		return model.Transaction{}, fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	txn := l.profile.Transactions[idx]

	if update.CategoryID != nil {
		if l.profile.CategoryByID(*update.CategoryID) == nil {
			return model.Transaction{}, fmt.Errorf("%w: %s", common.ErrUnknownCategory, *update.CategoryID)
		}
		txn.CategoryID = *update.CategoryID
	}
	if update.Date != nil {
		if update.Date.IsZero() {
			return model.Transaction{}, fmt.Errorf("%w: transaction date is required", common.ErrInvalidDate)
		}
		txn.Date = time.Date(update.Date.Year(), update.Date.Month(), update.Date.Day(), 0, 0, 0, 0, time.UTC)
	}
	if update.Amount != nil {
		txn.Amount = *update.Amount
	}
	if update.Note != nil {
		txn.Note = *update.Note
	}

	// Re-derive the sign so the amount can never disagree with the category.
	cat := l.profile.CategoryByID(txn.CategoryID)
	txn.Amount = model.SignedAmount(txn.Amount, cat.Kind)

	l.profile.Transactions[idx] = txn
	if err := l.persist(ctx); err != nil {
		return model.Transaction{}, err
	}

	slog.Debug("edited transaction", "id", id)
	return txn, nil
}

// DeleteTransaction permanently removes a transaction.
func (l *Ledger) DeleteTransaction(ctx context.Context, id string) error {
	idx := l.profile.TransactionByID(id)
	if idx < 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}

	l.profile.Transactions = append(l.profile.Transactions[:idx], l.profile.Transactions[idx+1:]...)
	if err := l.persist(ctx); err != nil {
		return err
	}

	slog.Debug("deleted transaction", "id", id)
	return nil
}

// ListTransactions returns a fresh, filtered snapshot ordered by date
// ascending with ties broken by insertion order. Callers re-invoke it for
// up-to-date results; it is not a cursor.
func (l *Ledger) ListTransactions(filter service.TransactionFilter) []model.Transaction {
	out := make([]model.Transaction, 0, len(l.profile.Transactions))
	for _, txn := range l.profile.Transactions {
		if filter.CategoryID != "" && txn.CategoryID != filter.CategoryID {
			continue
		}
		if filter.StartDate != nil && txn.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && txn.Date.After(*filter.EndDate) {
			continue
		}
		out = append(out, txn)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
