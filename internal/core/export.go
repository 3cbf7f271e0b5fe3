package core

// export.go snapshots the record store to a columnar file artifact.
//
// Artifacts are written through a temp file and renamed into place, so a
// failure partway never leaves a partial artifact behind. Each successful
// export is recorded in an in-process history keyed by a UUID job id.

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// exportColumns is the artifact header, matching the store's column order.
var exportColumns = []string{"id", "date", "customer_id", "product", "quantity", "unit_price", "total_price"}

// defaultHistoryLimit caps the in-process export history.
const defaultHistoryLimit = 50

// ExportEntry describes one completed export.
type ExportEntry struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	Format    string    `json:"format"`
	Rows      int       `json:"rows"`
	CreatedAt time.Time `json:"created_at"`
}

// Exporter writes snapshots of a Store to timestamped file artifacts.
type Exporter struct {
	store  Store
	dir    string
	prefix string
	limit  int

	mu      sync.Mutex
	history []ExportEntry
}

// NewExporter creates an Exporter writing `<prefix>_<timestamp>.<ext>`
// artifacts into dir.
func NewExporter(store Store, dir, prefix string) *Exporter {
	return &Exporter{
		store:  store,
		dir:    dir,
		prefix: prefix,
		limit:  defaultHistoryLimit,
	}
}

// Export snapshots the full current table content to an artifact in the
// requested format ("csv", or "xlsx"/"excel" for a spreadsheet) and returns
// the history entry identifying it. An unsupported format is a
// ValidationError and leaves no file behind.
func (e *Exporter) Export(ctx context.Context, format string) (ExportEntry, error) {
	format = strings.ToLower(strings.TrimSpace(format))

	var ext string
	switch format {
	case "csv":
		ext = ".csv"
	case "xlsx", "excel":
		format = "xlsx"
		ext = ".xlsx"
	default:
		return ExportEntry{}, &ValidationError{Field: "format", Msg: fmt.Sprintf("unsupported export format %q", format)}
	}

	records, err := e.store.GetAll(ctx)
	if err != nil {
		return ExportEntry{}, err
	}

	name := fmt.Sprintf("%s_%s%s", e.prefix, time.Now().Format("20060102_150405"), ext)
	if err := e.writeArtifact(filepath.Join(e.dir, name), format, records); err != nil {
		return ExportEntry{}, fmt.Errorf("write artifact %s: %w", name, err)
	}

	entry := ExportEntry{
		ID:        uuid.New().String(),
		FileName:  name,
		Format:    format,
		Rows:      len(records),
		CreatedAt: time.Now(),
	}

	e.mu.Lock()
	e.history = append(e.history, entry)
	if len(e.history) > e.limit {
		e.history = e.history[len(e.history)-e.limit:]
	}
	e.mu.Unlock()

	return entry, nil
}

// History returns recent exports, newest first.
func (e *Exporter) History() []ExportEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]ExportEntry, len(e.history))
	for i, entry := range e.history {
		out[len(e.history)-1-i] = entry
	}
	return out
}

// writeArtifact writes records to path via a temp file in the same
// directory, renaming into place only on success.
func (e *Exporter) writeArtifact(path, format string, records []Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	switch format {
	case "csv":
		err = writeCSV(tmp, records)
	case "xlsx":
		err = writeXLSX(tmp, records)
	}
	if err != nil {
		return err
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		tmp = nil
		return fmt.Errorf("rename into place: %w", err)
	}
	tmp = nil
	return nil
}

func writeCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			formatDateCell(rec.Date),
			strconv.FormatInt(rec.CustomerID, 10),
			rec.Product,
			formatFloatCell(rec.Quantity),
			formatFloatCell(rec.UnitPrice),
			formatFloatCell(rec.TotalPrice),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, records []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"

	header := make([]interface{}, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			rec.ID,
			formatDateCell(rec.Date),
			rec.CustomerID,
			rec.Product,
			floatCell(rec.Quantity),
			floatCell(rec.UnitPrice),
			floatCell(rec.TotalPrice),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func formatDateCell(d *Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func formatFloatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// floatCell keeps nulls as empty spreadsheet cells instead of zeroes.
func floatCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
