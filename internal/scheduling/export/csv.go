package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"harvestwise/advisory-backend/internal/scheduling"
)

// CSVOptions configures CSV schedule export behavior
type CSVOptions struct {
	Delimiter     rune   `json:"delimiter"`
	IncludeHeader bool   `json:"include_header"`
	DateFormat    string `json:"date_format"`
}

// DefaultCSVOptions returns default CSV export options
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:     ',',
		IncludeHeader: true,
		DateFormat:    "2006-01-02",
	}
}

var scheduleColumns = []string{
	"operation", "name", "scheduled_date", "estimated_cost",
	"priority", "requires_dry_weather", "generated",
}

// WriteScheduleCSV writes a generated schedule as CSV
func WriteScheduleCSV(w io.Writer, schedule []scheduling.ScheduledOperation, options CSVOptions) error {
	writer := csv.NewWriter(w)
	writer.Comma = options.Delimiter

	if options.IncludeHeader {
		if err := writer.Write(scheduleColumns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for _, op := range schedule {
		record := []string{
			string(op.OperationType),
			op.Name,
			op.ScheduledDate.Format(options.DateFormat),
			strconv.FormatFloat(op.EstimatedCost, 'f', 2, 64),
			strconv.Itoa(op.Priority),
			strconv.FormatBool(op.RequiresDryWeather),
			strconv.FormatBool(op.Generated),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write schedule row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
