package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	OrdersSheet       = "Orders"
	OrdersContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ordersHeader = []any{
	"Recipient Number",
	"Name",
	"Capacity (GB)",
	"Network",
	"Bundle Type",
	"Status",
	"External Status",
	"Order Reference",
}

type OrderRow struct {
	RecipientNumber string
	Name            string
	Network         string
	BundleType      string
	Status          string
	ExternalStatus  string
	OrderReference  string
	Capacity        float64
}

func OrdersFileName(now time.Time) string {
	return fmt.Sprintf("orders-%s.xlsx", now.Format(time.DateOnly))
}

// WriteOrdersXLSX writes a single-sheet workbook: one header row, then one row per order.
func WriteOrdersXLSX(w io.Writer, rows []OrderRow) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", closeErr)
		}
	}()

	if err = f.SetSheetName(f.GetSheetName(0), OrdersSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(OrdersSheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}
	if err = sw.SetRow("A1", ordersHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		values := []any{
			row.RecipientNumber,
			row.Name,
			row.Capacity,
			row.Network,
			row.BundleType,
			row.Status,
			row.ExternalStatus,
			row.OrderReference,
		}
		if err = sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err = sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if err = f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
