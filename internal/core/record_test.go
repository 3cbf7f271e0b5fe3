package core

import (
	"encoding/json"
	"testing"
	"time"
)

func fptr(v float64) *float64 { return &v }

func TestMultiplyPrice(t *testing.T) {
	tests := []struct {
		name      string
		quantity  *float64
		unitPrice *float64
		wantNull  bool
		want      float64
	}{
		{name: "both set", quantity: fptr(4), unitPrice: fptr(2.5), want: 10},
		{name: "zero quantity", quantity: fptr(0), unitPrice: fptr(2.5), want: 0},
		{name: "nil quantity", quantity: nil, unitPrice: fptr(2.5), wantNull: true},
		{name: "nil unit price", quantity: fptr(4), unitPrice: nil, wantNull: true},
		{name: "both nil", quantity: nil, unitPrice: nil, wantNull: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MultiplyPrice(tt.quantity, tt.unitPrice)
			if tt.wantNull {
				if got != nil {
					t.Fatalf("MultiplyPrice = %v, want nil", *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("MultiplyPrice = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdateFieldsApplyTo(t *testing.T) {
	base := func() Record {
		return Record{
			ID:         1,
			Date:       NewDate(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
			CustomerID: 100,
			Product:    "Widget",
			Quantity:   fptr(2),
			UnitPrice:  fptr(5),
			TotalPrice: fptr(10),
		}
	}

	t.Run("quantity recomputes total", func(t *testing.T) {
		rec := base()
		UpdateFields{Quantity: fptr(3)}.ApplyTo(&rec)
		if *rec.Quantity != 3 {
			t.Errorf("Quantity = %v, want 3", *rec.Quantity)
		}
		if rec.TotalPrice == nil || *rec.TotalPrice != 15 {
			t.Errorf("TotalPrice = %v, want 15", rec.TotalPrice)
		}
	})

	t.Run("unit price recomputes total", func(t *testing.T) {
		rec := base()
		UpdateFields{UnitPrice: fptr(7)}.ApplyTo(&rec)
		if rec.TotalPrice == nil || *rec.TotalPrice != 14 {
			t.Errorf("TotalPrice = %v, want 14", rec.TotalPrice)
		}
	})

	t.Run("both factors recompute total", func(t *testing.T) {
		rec := base()
		UpdateFields{Quantity: fptr(3), UnitPrice: fptr(4)}.ApplyTo(&rec)
		if rec.TotalPrice == nil || *rec.TotalPrice != 12 {
			t.Errorf("TotalPrice = %v, want 12", rec.TotalPrice)
		}
	})

	t.Run("unrelated field leaves total", func(t *testing.T) {
		rec := base()
		UpdateFields{Product: sptr("Gadget")}.ApplyTo(&rec)
		if rec.Product != "Gadget" {
			t.Errorf("Product = %q, want Gadget", rec.Product)
		}
		if rec.TotalPrice == nil || *rec.TotalPrice != 10 {
			t.Errorf("TotalPrice = %v, want unchanged 10", rec.TotalPrice)
		}
	})

	t.Run("one factor with stored null yields null total", func(t *testing.T) {
		rec := base()
		rec.UnitPrice = nil
		rec.TotalPrice = nil
		UpdateFields{Quantity: fptr(3)}.ApplyTo(&rec)
		if rec.TotalPrice != nil {
			t.Errorf("TotalPrice = %v, want nil", *rec.TotalPrice)
		}
	})

	t.Run("nil fields leave record untouched", func(t *testing.T) {
		rec := base()
		UpdateFields{}.ApplyTo(&rec)
		want := base()
		if rec.CustomerID != want.CustomerID || rec.Product != want.Product ||
			*rec.Quantity != *want.Quantity || *rec.TotalPrice != *want.TotalPrice {
			t.Errorf("record changed by empty update: %+v", rec)
		}
	})
}

func sptr(s string) *string { return &s }

func TestRecordJSON(t *testing.T) {
	rec := Record{
		ID:         1,
		Date:       NewDate(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		CustomerID: 100,
		Product:    "Widget",
		Quantity:   fptr(2),
		UnitPrice:  fptr(5),
		TotalPrice: fptr(10),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["date"] != "2024-01-15" {
		t.Errorf("date = %v, want 2024-01-15", got["date"])
	}
	if got["total_price"] != float64(10) {
		t.Errorf("total_price = %v, want 10", got["total_price"])
	}

	// nulls round-trip as JSON null
	data, err = json.Marshal(Record{ID: 2, CustomerID: 100})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"date", "quantity", "unit_price", "total_price"} {
		if got[key] != nil {
			t.Errorf("%s = %v, want null", key, got[key])
		}
	}
}
