// Package core holds the domain model of the sales record service: the
// record type, the store contract, CSV normalization, the CRUD service,
// and the export pipeline.
package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// dateLayout is the wire and artifact representation of a Date.
const dateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component. It marshals as
// "YYYY-MM-DD" and is always stored truncated to midnight UTC.
type Date struct {
	time.Time
}

// NewDate returns the Date for t, dropping the time-of-day component.
func NewDate(t time.Time) *Date {
	y, m, d := t.Date()
	return &Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String formats the date as YYYY-MM-DD.
func (d *Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	*d = *NewDate(t)
	return nil
}

// Record is one sales record, the single row type of the whole service.
//
// Nullable fields are pointers: a nil Date, Quantity, UnitPrice, or
// TotalPrice marshals as JSON null and is stored as SQL NULL. CustomerID is
// mandatory everywhere; rows without it never become Records.
type Record struct {
	ID         int64    `json:"id"`
	Date       *Date    `json:"date"`
	CustomerID int64    `json:"customer_id"`
	Product    string   `json:"product"`
	Quantity   *float64 `json:"quantity"`
	UnitPrice  *float64 `json:"unit_price"`
	TotalPrice *float64 `json:"total_price"`
}

// MultiplyPrice computes quantity * unit price, propagating null: the
// result is nil whenever either factor is nil.
func MultiplyPrice(quantity, unitPrice *float64) *float64 {
	if quantity == nil || unitPrice == nil {
		return nil
	}
	total := *quantity * *unitPrice
	return &total
}

// UpdateFields is a partial update: nil fields are left unchanged. Every
// store implementation merges through ApplyTo so the derived total stays
// consistent on all mutation paths.
type UpdateFields struct {
	Date       *Date
	CustomerID *int64
	Product    *string
	Quantity   *float64
	UnitPrice  *float64
}

// ApplyTo merges the supplied fields into rec. When quantity or unit price
// is among them, TotalPrice is recomputed from the post-merge pair; an
// update touching neither factor leaves the stored total alone.
func (f UpdateFields) ApplyTo(rec *Record) {
	if f.Date != nil {
		rec.Date = f.Date
	}
	if f.CustomerID != nil {
		rec.CustomerID = *f.CustomerID
	}
	if f.Product != nil {
		rec.Product = *f.Product
	}
	if f.Quantity != nil {
		rec.Quantity = f.Quantity
	}
	if f.UnitPrice != nil {
		rec.UnitPrice = f.UnitPrice
	}
	if f.Quantity != nil || f.UnitPrice != nil {
		rec.TotalPrice = MultiplyPrice(rec.Quantity, rec.UnitPrice)
	}
}

// Store is the persistence contract for sales records.
//
// Implementations must assign Insert ids as max(existing)+1 (1 when the
// table is empty), make ReplaceAll atomic with respect to concurrent
// readers, and report a missing id as ErrNotFound.
type Store interface {
	// ReplaceAll atomically swaps the whole table for the given records,
	// keeping the ids they carry.
	ReplaceAll(ctx context.Context, records []Record) error

	// GetAll returns all records in ascending id order.
	GetAll(ctx context.Context) ([]Record, error)

	// GetByID returns the record with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (Record, error)

	// Insert stores rec under a freshly assigned id and returns it.
	Insert(ctx context.Context, rec Record) (Record, error)

	// Update merges fields into the record with the given id and returns
	// the result, or ErrNotFound.
	Update(ctx context.Context, id int64, fields UpdateFields) (Record, error)

	// DeleteByID removes the record with the given id, or ErrNotFound.
	DeleteByID(ctx context.Context, id int64) error
}
