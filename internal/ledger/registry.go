// Package ledger implements the category registry and transaction store for
// a single profile. It is the sole writer of persisted state: every mutation
// is applied in memory and then flushed through the profile repository.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mkade/saffron/internal/common"
	"github.com/mkade/saffron/internal/model"
	"github.com/mkade/saffron/internal/service"
)

// Ledger owns one loaded profile and persists it after each mutation.
type Ledger struct {
	profile *model.Profile
	repo    service.ProfileRepository
}

// New creates a ledger over a loaded profile.
func New(profile *model.Profile, repo service.ProfileRepository) *Ledger {
	return &Ledger{profile: profile, repo: repo}
}

// Profile exposes the underlying profile for read-only collaborators such as
// the aggregation engine.
func (l *Ledger) Profile() *model.Profile {
	return l.profile
}

// persist flushes the profile. On failure the in-memory change is kept so the
// caller can retry the save; durable state is untouched either way.
func (l *Ledger) persist(ctx context.Context) error {
	if err := l.repo.Save(ctx, l.profile); err != nil {
		return fmt.Errorf("failed to persist profile %q: %w", l.profile.Name, err)
	}
	return nil
}

// Categories returns the profile's categories in creation order.
func (l *Ledger) Categories() []model.Category {
	out := make([]model.Category, len(l.profile.Categories))
	copy(out, l.profile.Categories)
	return out
}

// AddCategory creates a new category. Names are unique case-insensitively
// within a profile.
func (l *Ledger) AddCategory(ctx context.Context, name string, kind model.CategoryKind, budget *decimal.Decimal) (model.Category, error) {
	if existing := l.profile.CategoryByName(name); existing != nil {
		return model.Category{}, fmt.Errorf("%w: %q collides with %q", common.ErrDuplicateCategory, name, existing.Name)
	}

	cat, err := model.NewCategory(name, kind, budget)
	if err != nil {
		return model.Category{}, err
	}

	l.profile.Categories = append(l.profile.Categories, cat)
	if err := l.persist(ctx); err != nil {
		return model.Category{}, err
	}

	slog.Info("created category", "name", cat.Name, "kind", cat.Kind, "id", cat.ID)
	return cat, nil
}

// RemoveCategory deletes a category that no transaction references. Callers
// must reassign or delete referencing transactions first; there is no
// cascading delete.
func (l *Ledger) RemoveCategory(ctx context.Context, id string) error {
	cat := l.profile.CategoryByID(id)
	if cat == nil {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	if n := l.profile.CategoryRefCount(id); n > 0 {
		return fmt.Errorf("%w: %q is referenced by %d transaction(s)", common.ErrCategoryInUse, cat.Name, n)
	}

	name := cat.Name
	for i := range l.profile.Categories {
		if l.profile.Categories[i].ID == id {
			l.profile.Categories = append(l.profile.Categories[:i], l.profile.Categories[i+1:]...)
			break
		}
	}
	if err := l.persist(ctx); err != nil {
		return err
	}

	slog.Info("removed category", "name", name, "id", id)
	return nil
}

// UpdateBudget sets or replaces a category's monthly budget cap.
func (l *Ledger) UpdateBudget(ctx context.Context, id string, amount decimal.Decimal) error {
	cat := l.profile.CategoryByID(id)
	if cat == nil {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: budget %s is negative", common.ErrInvalidAmount, amount)
	}

	cat.MonthlyBudget = &amount
	if err := l.persist(ctx); err != nil {
		return err
	}

	slog.Info("updated budget", "category", cat.Name, "budget", amount.String())
	return nil
}

// ClearBudget removes a category's monthly budget cap.
func (l *Ledger) ClearBudget(ctx context.Context, id string) error {
	cat := l.profile.CategoryByID(id)
	if cat == nil {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}

	cat.MonthlyBudget = nil
	return l.persist(ctx)
}

// RenameCategory changes a category's display name, keeping names unique.
func (l *Ledger) RenameCategory(ctx context.Context, id, name string) error {
	cat := l.profile.CategoryByID(id)
	if cat == nil {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: category name cannot be empty", common.ErrInvalidConfig)
	}
	if existing := l.profile.CategoryByName(name); existing != nil && existing.ID != id {
		return fmt.Errorf("%w: %q collides with %q", common.ErrDuplicateCategory, name, existing.Name)
	}

	old := cat.Name
	cat.Name = name
	if err := l.persist(ctx); err != nil {
		return err
	}

	slog.Info("renamed category", "from", old, "to", name)
	return nil
}

// ResolveCategory finds a category by id, exact name, or case-insensitive
// name, in that order.
func (l *Ledger) ResolveCategory(ref string) (*model.Category, error) {
	if cat := l.profile.CategoryByID(ref); cat != nil {
		return cat, nil
	}
	if cat := l.profile.CategoryByName(ref); cat != nil {
		return cat, nil
	}
	return nil, fmt.Errorf("%w: %q", common.ErrUnknownCategory, ref)
}
