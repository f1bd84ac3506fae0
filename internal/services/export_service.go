package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"finance-ledger/internal/models"

	"github.com/xuri/excelize/v2"
)

// ExportFormat is the file type an export is rendered as
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"

	exportSheet = "Transactions"
)

var ErrInvalidExportFormat = errors.New("export format must be csv or xlsx")

var exportHeaders = []string{"id", "date", "account", "category", "kind", "amount", "description"}

func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportXLSX:
		return ExportXLSX, nil
	default:
		return "", ErrInvalidExportFormat
	}
}

// ContentType is the MIME type served for the format
func (f ExportFormat) ContentType() string {
	if f == ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

type exportService struct {
	ledger LedgerServiceInterface
}

// NewExportService renders ledger listings. Paging in the filters is ignored.
func NewExportService(ledger LedgerServiceInterface) ExportServiceInterface {
	return &exportService{ledger: ledger}
}

func (s *exportService) Export(ctx context.Context, filters models.TransactionFilters, format ExportFormat, w io.Writer) error {
	filters.Limit = 0
	filters.Offset = 0

	transactions, _, err := s.ledger.List(ctx, filters)
	if err != nil {
		return err
	}

	switch format {
	case ExportCSV:
		return writeCSV(transactions, w)
	case ExportXLSX:
		return writeXLSX(transactions, w)
	default:
		return ErrInvalidExportFormat
	}
}

func exportRow(t *models.Transaction) []string {
	description := ""
	if t.Description != nil {
		description = *t.Description
	}
	return []string{
		t.ID.String(),
		t.Date.Format(models.DateLayout),
		t.Account.Name,
		t.Category.Name,
		t.Kind.String(),
		t.Amount.StringFixed(2),
		description,
	}
}

func writeCSV(transactions []models.Transaction, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeaders); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range transactions {
		row := exportRow(&transactions[i])
		// account, category and description are user text
		for _, col := range []int{2, 3, 6} {
			row[col] = neutralizeFormula(row[col])
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// neutralizeFormula prefixes a quote to text a spreadsheet would otherwise
// evaluate as a formula when opening the CSV
func neutralizeFormula(value string) string {
	if value != "" && strings.ContainsRune("=+-@\t\r", rune(value[0])) {
		return "'" + value
	}
	return value
}

func writeXLSX(transactions []models.Transaction, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("failed to write xlsx header: %w", err)
	}

	for i := range transactions {
		t := &transactions[i]
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := exportRow(t)
		values := []interface{}{
			row[0], row[1], row[2], row[3], row[4],
			t.Amount.InexactFloat64(),
			row[6],
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write xlsx row: %w", err)
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 38)
	_ = f.SetColWidth(exportSheet, "B", "B", 12)
	_ = f.SetColWidth(exportSheet, "C", "D", 20)
	_ = f.SetColWidth(exportSheet, "G", "G", 40)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}
