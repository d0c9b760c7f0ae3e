package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/mkade/saffron/internal/common"
	"github.com/mkade/saffron/internal/config"
	"github.com/mkade/saffron/internal/ledger"
	"github.com/mkade/saffron/internal/model"
	"github.com/mkade/saffron/internal/storage"
)

// openLedger loads the active profile and wraps it in a ledger.
func openLedger(ctx context.Context) (*ledger.Ledger, *storage.Store, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.NewStore(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open data directory: %w", err)
	}

	name := viper.GetString("profile")
	if name == "" {
		name = storage.DefaultProfile
	}

	profile, err := store.Load(ctx, name)
	if err != nil {
		return nil, nil, common.NewUserError(fmt.Sprintf("could not load profile %q", name), err)
	}

	return ledger.New(profile, store), store, nil
}

// parseDate parses a user-supplied ISO calendar date.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not an ISO date (YYYY-MM-DD)", common.ErrInvalidDate, s)
	}
	return t, nil
}

// parseAmount parses a user-supplied decimal amount.
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not a decimal amount", common.ErrInvalidAmount, s)
	}
	return amount, nil
}
