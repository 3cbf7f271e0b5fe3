package core_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/salespipe/salespipe/internal/core"
	"github.com/salespipe/salespipe/internal/store"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	ctx := context.Background()

	t.Run("loads and filters", func(t *testing.T) {
		path := writeSource(t,
			"Date,Customer_ID,Product,Quantity,Unit_Price\n"+
				"2024-01-15,100,Widget,2,5.00\n"+
				"2024-01-16,,Gadget,1,3.00\n")

		mem := store.NewMemory()
		loaded, err := core.LoadFromFile(ctx, mem, path)
		if err != nil {
			t.Fatalf("LoadFromFile: %v", err)
		}
		if loaded != 1 {
			t.Errorf("loaded = %d, want 1", loaded)
		}

		records, err := mem.GetAll(ctx)
		if err != nil {
			t.Fatalf("GetAll: %v", err)
		}
		if len(records) != 1 || records[0].ID != 1 {
			t.Fatalf("unexpected records: %v", records)
		}
		if records[0].TotalPrice == nil || *records[0].TotalPrice != 10 {
			t.Errorf("TotalPrice = %v, want 10", records[0].TotalPrice)
		}
	})

	t.Run("replaces previous contents", func(t *testing.T) {
		mem := store.NewMemory()
		seed := []core.Record{{ID: 1, CustomerID: 1}, {ID: 2, CustomerID: 2}, {ID: 3, CustomerID: 3}}
		if err := mem.ReplaceAll(ctx, seed); err != nil {
			t.Fatalf("seed: %v", err)
		}

		path := writeSource(t, "customer_id,product\n500,Widget\n")
		loaded, err := core.LoadFromFile(ctx, mem, path)
		if err != nil {
			t.Fatalf("LoadFromFile: %v", err)
		}
		if loaded != 1 {
			t.Errorf("loaded = %d, want 1", loaded)
		}

		records, err := mem.GetAll(ctx)
		if err != nil {
			t.Fatalf("GetAll: %v", err)
		}
		if len(records) != 1 || records[0].CustomerID != 500 {
			t.Errorf("store not replaced: %v", records)
		}
	})

	t.Run("missing file empties the store", func(t *testing.T) {
		mem := store.NewMemory()
		if err := mem.ReplaceAll(ctx, []core.Record{{ID: 1, CustomerID: 1}}); err != nil {
			t.Fatalf("seed: %v", err)
		}

		loaded, err := core.LoadFromFile(ctx, mem, filepath.Join(t.TempDir(), "absent.csv"))
		if err != nil {
			t.Fatalf("LoadFromFile: %v", err)
		}
		if loaded != 0 {
			t.Errorf("loaded = %d, want 0", loaded)
		}

		records, err := mem.GetAll(ctx)
		if err != nil {
			t.Fatalf("GetAll: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("store not emptied: %v", records)
		}
	})

	t.Run("malformed csv reported, store untouched", func(t *testing.T) {
		mem := store.NewMemory()
		seed := []core.Record{{ID: 1, CustomerID: 1}}
		if err := mem.ReplaceAll(ctx, seed); err != nil {
			t.Fatalf("seed: %v", err)
		}

		path := writeSource(t, "customer_id,product\n\"unterminated,Widget\n")
		if _, err := core.LoadFromFile(ctx, mem, path); err == nil {
			t.Fatal("expected error for malformed csv")
		}

		records, err := mem.GetAll(ctx)
		if err != nil {
			t.Fatalf("GetAll: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("store changed after failed load: %v", records)
		}
	})
}
