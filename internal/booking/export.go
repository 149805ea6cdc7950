package booking

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/bengkelhub/bengkel-booking/internal/pkg/money"
)

const exportSheet = "Bookings"

var exportHeaders = []string{
	"Code", "Date", "Time", "Status", "Service",
	"Customer", "Phone", "Email",
	"Vehicle", "Plate", "Model", "Year",
	"Estimated Cost", "Final Cost", "Notes", "Mechanic Notes", "Created At",
}

// Export writes every booking matching filter to w as an xlsx workbook.
// Pagination fields of filter are ignored.
func (s *service) Export(ctx context.Context, w io.Writer, filter Filter) error {
	filter.Page, filter.PageSize = 0, 0
	items, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(exportSheet); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	_ = f.DeleteSheet("Sheet1")
	if index, err := f.GetSheetIndex(exportSheet); err == nil {
		f.SetActiveSheet(index)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("error creating header style: %w", err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, h)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	_ = f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle)
	_ = f.SetPanes(exportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for r, b := range items {
		row := []any{
			b.Code,
			b.Date.Format(DateLayout),
			b.Time,
			string(b.Status),
			b.ServiceName,
			b.DisplayName(),
			b.CustomerPhone,
			b.CustomerEmail,
			b.VehicleType,
			b.VehiclePlate,
			b.VehicleModel,
			b.VehicleYear,
			money.FormatRupiah(b.EstimatedCost),
			money.FormatOptional(b.FinalCost),
			deref(b.Notes),
			deref(b.MechanicNotes),
			b.CreatedAt.In(s.loc).Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("error writing row %d: %w", r+2, err)
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 26)
	_ = f.SetColWidth(exportSheet, "B", lastCol, 16)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}

	s.logger.Info().Int("rows", len(items)).Msg("bookings exported")
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
