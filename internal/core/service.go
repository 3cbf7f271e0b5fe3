package core

// service.go is the CRUD contract layer over the record store. It owns
// request-payload validation; field merging and derived-field recomputation
// live in the store so they hold for every mutation path.

import (
	"context"
	"strings"
)

// Service provides the record CRUD operations.
type Service struct {
	store Store
}

// NewService creates a Service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateRequest is the payload for Create. Pointer fields distinguish
// absent from zero-valued. A caller-supplied total_price has no slot here
// and is therefore ignored; the stored value is always recomputed.
type CreateRequest struct {
	Date       *string  `json:"date"`
	CustomerID *int64   `json:"customer_id"`
	Product    *string  `json:"product"`
	Quantity   *float64 `json:"quantity"`
	UnitPrice  *float64 `json:"unit_price"`
}

// Create validates the payload and inserts a new record. The validation
// error names the first missing field, checked in a fixed order.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Record, error) {
	switch {
	case req.Date == nil:
		return Record{}, missingField("date")
	case req.CustomerID == nil:
		return Record{}, missingField("customer_id")
	case req.Product == nil:
		return Record{}, missingField("product")
	case req.Quantity == nil:
		return Record{}, missingField("quantity")
	case req.UnitPrice == nil:
		return Record{}, missingField("unit_price")
	}

	date, err := parseRequestDate(*req.Date)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		Date:       date,
		CustomerID: *req.CustomerID,
		Product:    *req.Product,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		TotalPrice: MultiplyPrice(req.Quantity, req.UnitPrice),
	}
	return s.store.Insert(ctx, rec)
}

// List returns all records in id order.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.store.GetAll(ctx)
}

// Get returns the record with the given id, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (Record, error) {
	return s.store.GetByID(ctx, id)
}

// UpdateRequest is the partial payload for Update. Only supplied fields are
// merged; as with CreateRequest, total_price is not accepted.
type UpdateRequest struct {
	Date       *string  `json:"date"`
	CustomerID *int64   `json:"customer_id"`
	Product    *string  `json:"product"`
	Quantity   *float64 `json:"quantity"`
	UnitPrice  *float64 `json:"unit_price"`
}

// Update merges the supplied fields into the record with the given id and
// returns the updated record, with TotalPrice recomputed whenever quantity
// or unit_price was among the supplied fields. Returns ErrNotFound when the
// id is absent.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (Record, error) {
	fields := UpdateFields{
		CustomerID: req.CustomerID,
		Product:    req.Product,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
	}

	if req.Date != nil {
		date, err := parseRequestDate(*req.Date)
		if err != nil {
			return Record{}, err
		}
		fields.Date = date
	}

	return s.store.Update(ctx, id, fields)
}

// Delete removes the record with the given id. Returns ErrNotFound when
// nothing was removed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteByID(ctx, id)
}

// parseRequestDate parses a date supplied by an API caller. Unlike the bulk
// load path, an interactive caller is told about an unparsable date instead
// of silently getting a null. An explicitly empty string stays null.
func parseRequestDate(s string) (*Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	date := ParseDate(s)
	if date == nil {
		return nil, &ValidationError{Field: "date", Msg: "unrecognized date format, use YYYY-MM-DD"}
	}
	return date, nil
}
