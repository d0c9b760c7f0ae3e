package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Profile is the unit of persistence: a named ledger owning its categories
// and transactions outright. Transactions are kept in insertion order;
// date-ordered views are produced by the ledger store.
type Profile struct {
	Name         string
	Categories   []Category
	Transactions []Transaction

	extra map[string]json.RawMessage
}

// NewProfile creates an empty profile.
func NewProfile(name string) *Profile {
	return &Profile{Name: name}
}

// CategoryByID returns the category with the given id, or nil.
func (p *Profile) CategoryByID(id string) *Category {
	for i := range p.Categories {
		if p.Categories[i].ID == id {
			return &p.Categories[i]
		}
	}
	return nil
}

// CategoryByName returns the category whose name matches case-insensitively,
// or nil.
func (p *Profile) CategoryByName(name string) *Category {
	for i := range p.Categories {
		if strings.EqualFold(p.Categories[i].Name, name) {
			return &p.Categories[i]
		}
	}
	return nil
}

// TransactionByID returns the index of the transaction with the given id,
// or -1.
func (p *Profile) TransactionByID(id string) int {
	for i := range p.Transactions {
		if p.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}

// CategoryRefCount returns how many transactions reference the category.
func (p *Profile) CategoryRefCount(id string) int {
	count := 0
	for i := range p.Transactions {
		if p.Transactions[i].CategoryID == id {
			count++
		}
	}
	return count
}

// profileJSON is the serialized shape of a Profile.
type profileJSON struct {
	Name         string        `json:"name"`
	Categories   []Category    `json:"categories"`
	Transactions []Transaction `json:"transactions"`
}

var profileKnownFields = knownFields[profileJSON]()

// MarshalJSON serializes the profile, re-emitting retained unknown fields.
func (p *Profile) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(profileJSON{
		Name:         p.Name,
		Categories:   p.Categories,
		Transactions: p.Transactions,
	}, p.extra)
}

// UnmarshalJSON restores the profile and retains unknown fields.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var known profileJSON
	extra, err := unmarshalWithExtra(data, &known, profileKnownFields)
	if err != nil {
		return fmt.Errorf("failed to decode profile: %w", err)
	}

	p.Name = known.Name
	p.Categories = known.Categories
	p.Transactions = known.Transactions
	p.extra = extra
	return nil
}
