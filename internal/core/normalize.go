package core

// normalize.go turns raw CSV rows into validated Records.
//
// The contract is deliberately forgiving: rows missing the mandatory
// customer_id are silently filtered, and bad dates or numbers degrade to
// null fields. The only fatal condition is an unreadable source, which
// ReadRows propagates to the caller.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// RawRow is one CSV data row keyed by its normalized header name.
type RawRow map[string]string

// ReadRows decodes a CSV stream into raw rows. Header cells are trimmed and
// lowercased so matching is case- and whitespace-insensitive; data cells are
// cleaned of common spreadsheet artifacts. Column order is irrelevant.
// An empty stream yields no rows.
func ReadRows(r io.Reader) ([]RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = NormalizeHeader(CleanCell(h))
	}

	var rows []RawRow
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}

		row := make(RawRow, len(keys))
		for i, cell := range cells {
			if i < len(keys) {
				row[keys[i]] = CleanCell(cell)
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Normalize turns raw rows into validated records. It is a pure function of
// its input:
//
//   - rows whose customer_id is missing or unparsable are dropped (silent
//     filtering, not an error),
//   - date, quantity, and unit_price are coerced best-effort, null on
//     failure,
//   - total_price = quantity * unit_price, null-propagating,
//   - ids are the 1-based position in the filtered output sequence.
func Normalize(rows []RawRow) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		customerID, ok := ParseID(row["customer_id"])
		if !ok {
			continue
		}

		rec := Record{
			Date:       ParseDate(row["date"]),
			CustomerID: customerID,
			Product:    row["product"],
			Quantity:   ParseNumeric(row["quantity"]),
			UnitPrice:  ParseNumeric(row["unit_price"]),
		}
		rec.TotalPrice = MultiplyPrice(rec.Quantity, rec.UnitPrice)
		rec.ID = int64(len(records) + 1)

		records = append(records, rec)
	}
	return records
}
