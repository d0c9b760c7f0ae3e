// Package service defines the contracts between the engine and its collaborators.
package service

import (
	"context"
	"io"
	"time"

	"github.com/mkade/saffron/internal/model"
)

// TransactionFilter defines filtering options for transaction listings.
// Nil bounds are open; an empty CategoryID matches every category.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID string
}

// ProfileRepository is the persistence contract for profiles. A mutation
// either fully reaches durable storage or leaves the previous durable state
// intact.
type ProfileRepository interface {
	// Load reads the named profile, creating an empty one if it does not
	// exist yet.
	Load(ctx context.Context, name string) (*model.Profile, error)
	// Save durably writes the profile with atomic replacement.
	Save(ctx context.Context, profile *model.Profile) error
	// List returns the names of all stored profiles.
	List(ctx context.Context) ([]string, error)
}

// StatementParser converts an external bank-statement format into candidate
// import rows. Implemented by the OFX adapter.
type StatementParser interface {
	Parse(ctx context.Context, r io.Reader) ([]StatementEntry, error)
}

// StatementEntry is one entry of a parsed bank statement, not yet mapped to
// a ledger category.
type StatementEntry struct {
	Date        time.Time
	Description string
	Amount      string
}
