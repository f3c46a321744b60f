package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"harvestwise/advisory-backend/internal/scheduling"
)

// ExcelOptions configures Excel schedule export behavior
type ExcelOptions struct {
	SheetName    string `json:"sheet_name"`
	FreezeHeader bool   `json:"freeze_header"`
	DateFormat   string `json:"date_format"`
}

// DefaultExcelOptions returns default Excel export options
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		SheetName:    "Schedule",
		FreezeHeader: true,
		DateFormat:   "2006-01-02",
	}
}

// WriteScheduleExcel writes a generated schedule as an Excel workbook
func WriteScheduleExcel(w io.Writer, schedule []scheduling.ScheduledOperation, options ExcelOptions) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := options.SheetName
	if sheet == "" {
		sheet = "Schedule"
	}

	index, err := file.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	if sheet != "Sheet1" {
		_ = file.DeleteSheet("Sheet1")
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, name := range scheduleColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
		_ = file.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, op := range schedule {
		values := []interface{}{
			string(op.OperationType),
			op.Name,
			op.ScheduledDate.Format(options.DateFormat),
			op.EstimatedCost,
			op.Priority,
			op.RequiresDryWeather,
			op.Generated,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write schedule cell: %w", err)
			}
		}
	}

	if options.FreezeHeader {
		_ = file.SetPanes(sheet, &excelize.Panes{
			Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
		})
	}

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
