// Package export writes delivery records back out as CSV or XLSX tables.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"github.com/jengzang/lastmile-backend-go/internal/dataset"
	"github.com/jengzang/lastmile-backend-go/internal/models"
)

// SheetName is the worksheet written by WriteXLSX
const SheetName = "Deliveries"

// ErrNoRecords is returned when there is nothing to export
var ErrNoRecords = errors.New("no data available for export")

// FileName returns the download name for an export created at now
func FileName(now time.Time, format string) string {
	return fmt.Sprintf("filtered_delivery_data_%s.%s", now.Format("20060102"), format)
}

// ContentType returns the MIME type of an export format
func ContentType(format string) string {
	if format == models.ExportFormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Write dispatches on format
func Write(w io.Writer, format string, columns []string, records []models.Delivery) error {
	switch format {
	case models.ExportFormatCSV:
		return WriteCSV(w, columns, records)
	case models.ExportFormatXLSX:
		return WriteXLSX(w, columns, records)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteCSV writes the records as a CSV table with the given column order
func WriteCSV(w io.Writer, columns []string, records []models.Delivery) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	withClock := dataset.AnyClock(records)
	cols := make([]series.Series, len(columns))
	for j, name := range columns {
		values := make([]string, len(records))
		for i := range records {
			values[i] = Cell(&records[i], name, withClock)
		}
		cols[j] = series.New(values, series.String, name)
	}

	df := dataframe.New(cols...)
	if df.Err != nil {
		return fmt.Errorf("failed to build export table: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// WriteXLSX writes the records to a single-sheet workbook
func WriteXLSX(w io.Writer, columns []string, records []models.Delivery) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}

	header := make([]interface{}, len(columns))
	for j, name := range columns {
		header[j] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	withClock := dataset.AnyClock(records)
	for i := range records {
		row := make([]interface{}, len(columns))
		for j, name := range columns {
			row[j] = xlsxValue(&records[i], name, withClock)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Cell renders one column of a record as text. NaN numerics are empty.
func Cell(d *models.Delivery, column string, withClock bool) string {
	if v, ok := numeric(d, column); ok {
		return formatFloat(v)
	}
	switch column {
	case models.ColOrderID:
		return d.OrderID
	case models.ColOrderDate:
		return dataset.FormatDate(d.OrderDate, withClock)
	case models.ColWeather, models.ColTraffic, models.ColVehicle, models.ColArea,
		models.ColCategory, models.ColDeliveryType:
		return d.Column(column)
	}
	return d.Extra[column]
}

func xlsxValue(d *models.Delivery, column string, withClock bool) interface{} {
	if v, ok := numeric(d, column); ok {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	}
	return Cell(d, column, withClock)
}

func numeric(d *models.Delivery, column string) (float64, bool) {
	switch column {
	case models.ColDeliveryTime:
		return d.DeliveryTime, true
	case models.ColAgentAge:
		return d.AgentAge, true
	case models.ColAgentRating:
		return d.AgentRating, true
	case models.ColStoreLatitude:
		return d.StoreLat, true
	case models.ColStoreLongitude:
		return d.StoreLon, true
	case models.ColDropLatitude:
		return d.DropLat, true
	case models.ColDropLongitude:
		return d.DropLon, true
	case models.ColDistanceKm:
		return d.DistanceKm, true
	case models.ColPickupDelay:
		return d.PickupDelay, true
	}
	return 0, false
}

func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
