package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the purchase state of an Item. The three literals are part of
// the persisted JSON format and must not be renamed.
type Status string

const (
	// StatusActive marks an item still waiting to be bought.
	StatusActive Status = "ACTIVE"
	// StatusBought marks an item that was purchased.
	StatusBought Status = "BOUGHT"
	// StatusCanceled marks an item the household decided not to buy.
	StatusCanceled Status = "CANCELED"
)

// Valid reports whether s is one of the three known status literals.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusBought, StatusCanceled:
		return true
	}
	return false
}

// ParseStatus converts a raw string into a Status, rejecting unknown values.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// Item represents a single shopping-list entry.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	// Stable for the item's lifetime; the merge key during sync.
	ID string `json:"id"`

	// Name is the free-text product name. May contain any Unicode,
	// including right-to-left scripts.
	Name string `json:"name"`

	// Category is the product category, assigned by classification or the
	// DefaultCategory fallback.
	Category string `json:"category"`

	// Price is the estimated or actual price in the household currency.
	// 0 means "unspecified".
	Price float64 `json:"price"`

	// Quantity defaults to 1. No workflow adjusts it yet; it is kept for
	// wire compatibility and future use.
	Quantity int `json:"quantity"`

	// Status is the purchase state; see the Status constants.
	Status Status `json:"status"`

	// CreatedAt is set once at creation (RFC 3339, UTC).
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is refreshed on every status change (RFC 3339, UTC).
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultCategory is used when classification is unavailable or fails.
const DefaultCategory = "General"

// NewItem creates an Active item with a fresh UUID and timestamps.
// Negative prices are coerced to 0 and an empty category falls back to
// DefaultCategory; an empty name is the caller's validation problem.
func NewItem(name, category string, price float64) Item {
	if category == "" {
		category = DefaultCategory
	}
	if price < 0 {
		price = 0
	}
	now := time.Now().UTC()
	return Item{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  category,
		Price:     price,
		Quantity:  1,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetStatus reassigns the item's status and refreshes UpdatedAt.
// Transitions are unrestricted: the original client lets the history view
// move items back to Active, so Bought/Canceled are not terminal here.
func (i *Item) SetStatus(s Status) error {
	if !s.Valid() {
		return fmt.Errorf("unknown status %q", s)
	}
	i.Status = s
	i.UpdatedAt = time.Now().UTC()
	return nil
}
