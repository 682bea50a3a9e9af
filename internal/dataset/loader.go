package dataset

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// Load reads and cleans the delivery file at path. CSV and XLSX are chosen by extension.
func Load(ctx context.Context, path string, opts Options) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: make sure '%s' is in the working directory", ErrDataNotFound, path)
		}
		return nil, fmt.Errorf("error loading data: %w", err)
	}

	df, err := readFrame(data, path, opts)
	if err != nil {
		return nil, fmt.Errorf("error loading data: %w", err)
	}

	ds, err := clean(ctx, df.Records(), opts)
	if err != nil {
		return nil, fmt.Errorf("error loading data: %w", err)
	}

	sum := sha256.Sum256(data)
	ds.Source = path
	ds.Checksum = hex.EncodeToString(sum[:])
	ds.LoadedAt = time.Now()
	return ds, nil
}

// readFrame reads the raw bytes into a dataframe where every column is a string
func readFrame(data []byte, path string, opts Options) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(data, opts.Sheet)
	default:
		return readCSV(data, opts.Delimiter)
	}
}

func readCSV(data []byte, delimiter rune) (dataframe.DataFrame, error) {
	if delimiter == 0 {
		delimiter = ','
	}
	// strip a UTF-8 BOM so the first header name matches
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(delimiter),
		dataframe.HasHeader(true),
	)
	if df.Err != nil {
		return df, fmt.Errorf("failed to parse CSV: %w", df.Err)
	}
	return df, nil
}

func readXLSX(data []byte, sheet string) (dataframe.DataFrame, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return dataframe.DataFrame{}, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	// raw values keep dates as serial numbers instead of the cell's display format
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("sheet %s is empty", sheet)
	}

	// GetRows drops trailing empty cells, so pad every row to the header width
	width := len(rows[0])
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		records = append(records, padded)
	}

	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.HasHeader(true),
	)
	if df.Err != nil {
		return df, fmt.Errorf("failed to parse sheet %s: %w", sheet, df.Err)
	}
	return df, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
