package core

import (
	"strings"
	"testing"
)

func TestReadRows(t *testing.T) {
	t.Run("normalizes headers", func(t *testing.T) {
		csv := " Date , CUSTOMER_ID,Product\n2024-01-15,100,Widget\n"
		rows, err := ReadRows(strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ReadRows: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("got %d rows, want 1", len(rows))
		}
		row := rows[0]
		if row["date"] != "2024-01-15" || row["customer_id"] != "100" || row["product"] != "Widget" {
			t.Errorf("unexpected row: %v", row)
		}
	})

	t.Run("cleans cells", func(t *testing.T) {
		csv := "customer_id,product\n=\"100\",  Widget  \n"
		rows, err := ReadRows(strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ReadRows: %v", err)
		}
		if rows[0]["customer_id"] != "100" {
			t.Errorf("customer_id = %q, want %q", rows[0]["customer_id"], "100")
		}
		if rows[0]["product"] != "Widget" {
			t.Errorf("product = %q, want %q", rows[0]["product"], "Widget")
		}
	})

	t.Run("empty stream", func(t *testing.T) {
		rows, err := ReadRows(strings.NewReader(""))
		if err != nil {
			t.Fatalf("ReadRows: %v", err)
		}
		if rows != nil {
			t.Errorf("got %v, want nil", rows)
		}
	})

	t.Run("ragged rows tolerated", func(t *testing.T) {
		csv := "customer_id,product,quantity\n100,Widget\n200,Gadget,3,extra\n"
		rows, err := ReadRows(strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ReadRows: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(rows))
		}
		if _, ok := rows[0]["quantity"]; ok {
			t.Error("short row should not have a quantity key")
		}
	})

	t.Run("malformed csv", func(t *testing.T) {
		csv := "customer_id,product\n\"unterminated,Widget\n"
		if _, err := ReadRows(strings.NewReader(csv)); err == nil {
			t.Fatal("expected error for malformed csv")
		}
	})
}

func TestNormalize(t *testing.T) {
	t.Run("drops rows without customer_id", func(t *testing.T) {
		rows := []RawRow{
			{"customer_id": "100", "product": "Widget"},
			{"customer_id": "", "product": "Orphan"},
			{"product": "NoID"},
			{"customer_id": "abc", "product": "BadID"},
			{"customer_id": "200", "product": "Gadget"},
		}
		records := Normalize(rows)
		if len(records) != 2 {
			t.Fatalf("got %d records, want 2", len(records))
		}
		if records[0].Product != "Widget" || records[1].Product != "Gadget" {
			t.Errorf("wrong rows survived: %v", records)
		}
	})

	t.Run("assigns dense ids", func(t *testing.T) {
		rows := []RawRow{
			{"customer_id": "100"},
			{"customer_id": ""},
			{"customer_id": "200"},
			{"customer_id": "300"},
		}
		records := Normalize(rows)
		for i, rec := range records {
			if want := int64(i + 1); rec.ID != want {
				t.Errorf("records[%d].ID = %d, want %d", i, rec.ID, want)
			}
		}
	})

	t.Run("bad cells degrade to null", func(t *testing.T) {
		rows := []RawRow{
			{"customer_id": "100", "date": "not-a-date", "quantity": "abc", "unit_price": "5.00"},
		}
		records := Normalize(rows)
		if len(records) != 1 {
			t.Fatalf("got %d records, want 1", len(records))
		}
		rec := records[0]
		if rec.Date != nil {
			t.Errorf("Date = %v, want nil", rec.Date)
		}
		if rec.Quantity != nil {
			t.Errorf("Quantity = %v, want nil", *rec.Quantity)
		}
		if rec.UnitPrice == nil || *rec.UnitPrice != 5 {
			t.Errorf("UnitPrice = %v, want 5", rec.UnitPrice)
		}
		if rec.TotalPrice != nil {
			t.Errorf("TotalPrice = %v, want nil (null factor)", *rec.TotalPrice)
		}
	})

	t.Run("computes total", func(t *testing.T) {
		rows := []RawRow{
			{"customer_id": "100", "quantity": "4", "unit_price": "2.50"},
		}
		records := Normalize(rows)
		if records[0].TotalPrice == nil || *records[0].TotalPrice != 10 {
			t.Errorf("TotalPrice = %v, want 10", records[0].TotalPrice)
		}
	})

	// end-to-end: one valid row and one without customer_id
	t.Run("mixed file", func(t *testing.T) {
		csv := "Date,Customer_ID,Product,Quantity,Unit_Price\n" +
			"2024-01-15,100,Widget,2,5.00\n" +
			"2024-01-16,,Gadget,1,3.00\n"
		rows, err := ReadRows(strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ReadRows: %v", err)
		}
		records := Normalize(rows)
		if len(records) != 1 {
			t.Fatalf("got %d records, want 1", len(records))
		}
		rec := records[0]
		if rec.ID != 1 {
			t.Errorf("ID = %d, want 1", rec.ID)
		}
		if rec.CustomerID != 100 {
			t.Errorf("CustomerID = %d, want 100", rec.CustomerID)
		}
		if rec.Date == nil || rec.Date.String() != "2024-01-15" {
			t.Errorf("Date = %v, want 2024-01-15", rec.Date)
		}
		if rec.TotalPrice == nil || *rec.TotalPrice != 10 {
			t.Errorf("TotalPrice = %v, want 10", rec.TotalPrice)
		}
	})
}
