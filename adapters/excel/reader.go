// Package excel loads parameter tables from spreadsheet files. Both .xlsx
// and .csv are handled by the same reader; cells that do not parse as
// numbers become missing values, and columns with no numeric content at all
// (date indexes, labels) are dropped.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gocausal/domain/dataset"
)

// Reader loads a parameter table from an Excel or CSV file.
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewReader creates a reader, picking the format from the file extension.
func NewReader(filePath string) *Reader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// Describe names the source for logs and reports.
func (r *Reader) Describe() string {
	return fmt.Sprintf("%s file: %s", r.fileType, r.filePath)
}

// Load reads the file into a parameter table.
func (r *Reader) Load(ctx context.Context) (*dataset.ParameterTable, error) {
	log.Printf("[DataReader] Reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("%s file must have at least a header row and one data row", strings.ToUpper(r.fileType))
	}
	return r.buildTable(rows)
}

// readExcelRows reads Sheet1 as raw string cells.
func (r *Reader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	log.Printf("[DataReader] Excel sheet read in %.2fms (%d rows)",
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// readCSVRows reads the whole CSV file as raw string cells.
func (r *Reader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	startTime := time.Now()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// buildTable turns raw string rows into a parameter table. The first row
// names the columns. Unparseable or absent cells become missing values;
// columns without a single numeric cell are dropped.
func (r *Reader) buildTable(rows [][]string) (*dataset.ParameterTable, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := rows[1:]
	table := dataset.NewParameterTable(len(dataRows))

	kept := 0
	for col, name := range headers {
		if name == "" {
			continue
		}
		series := make(dataset.Series, len(dataRows))
		numeric := 0
		for i, row := range dataRows {
			series[i] = math.NaN()
			if col >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				series[i] = v
				numeric++
			}
		}
		if numeric == 0 {
			log.Printf("[DataReader] Skipping non-numeric column: %s", name)
			continue
		}
		if err := table.AddColumn(name, series); err != nil {
			return nil, fmt.Errorf("failed to add column %s: %w", name, err)
		}
		kept++
	}

	if kept == 0 {
		return nil, fmt.Errorf("no numeric columns found in %s", r.filePath)
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), kept, len(dataRows))
	return table, nil
}
