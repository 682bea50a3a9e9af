package models

import "time"

// ExportRecord represents one export of the filtered record set
type ExportRecord struct {
	ID         string    `json:"id" db:"id"` // uuid
	FileName   string    `json:"file_name" db:"file_name"`
	Format     string    `json:"format" db:"format"` // csv, xlsx
	RowCount   int       `json:"row_count" db:"row_count"`
	FilterJSON string    `json:"filter_json,omitempty" db:"filter_json"`
	Trigger    string    `json:"trigger" db:"trigger"` // api, cli, schedule
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// DatasetLoad represents one (re)load of the source file
type DatasetLoad struct {
	ID             int64     `json:"id" db:"id"`
	Source         string    `json:"source" db:"source"`
	RowCount       int       `json:"row_count" db:"row_count"`
	Checksum       string    `json:"checksum" db:"checksum"`
	HasCoordinates bool      `json:"has_coordinates" db:"has_coordinates"`
	DurationMs     int64     `json:"duration_ms" db:"duration_ms"`
	LoadedAt       time.Time `json:"loaded_at" db:"loaded_at"`
}

// Export formats
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// Export triggers
const (
	ExportTriggerAPI      = "api"
	ExportTriggerCLI      = "cli"
	ExportTriggerSchedule = "schedule"
)

// DatasetStatus describes the currently loaded snapshot
type DatasetStatus struct {
	Source         string    `json:"source"`
	RowCount       int       `json:"row_count"`
	Columns        []string  `json:"columns"`
	HasCoordinates bool      `json:"has_coordinates"`
	Checksum       string    `json:"checksum"`
	LoadedAt       time.Time `json:"loaded_at"`
}
