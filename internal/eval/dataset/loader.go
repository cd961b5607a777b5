package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Loader reads caption reference records from a dataset file
type Loader struct {
	datasetPath string
}

// NewLoader creates a new dataset loader
func NewLoader(datasetPath string) *Loader {
	return &Loader{
		datasetPath: datasetPath,
	}
}

// Load loads all records from a dataset file (JSONL or Parquet)
func (l *Loader) Load() ([]CaptionRecord, error) {
	return l.load(0)
}

// LoadSample loads a limited number of records (useful for quick runs)
func (l *Loader) LoadSample(limit int) ([]CaptionRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("sample limit must be positive, got %d", limit)
	}
	return l.load(limit)
}

// load reads up to limit records; a limit of 0 reads the whole file
func (l *Loader) load(limit int) ([]CaptionRecord, error) {
	ext := strings.ToLower(filepath.Ext(l.datasetPath))

	switch ext {
	case ".parquet":
		return l.loadParquet(limit)
	case ".jsonl", ".json":
		return l.loadJSONL(limit)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
}

// loadJSONL loads records from a JSONL file
func (l *Loader) loadJSONL(limit int) ([]CaptionRecord, error) {
	slog.Debug("Opening JSONL dataset", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat dataset file: %w", err)
	}

	slog.Debug("JSONL dataset stats", "size_bytes", info.Size())

	var records []CaptionRecord
	scanner := bufio.NewScanner(file)

	// Captions are short but tag lists can get long
	const maxCapacity = 1024 * 1024 // 1MB per line
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		if len(line) == 0 {
			continue
		}

		var record CaptionRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}

		records = append(records, record)

		// Log first record for verification
		if lineNum == 1 {
			slog.Debug("First record sample",
				"id", record.ID,
				"title", record.Title,
				"album", record.Album,
				"tags", len(record.Tags))
		}

		// Log progress every 1000 records
		if lineNum%1000 == 0 {
			slog.Debug("Reading JSONL", "lines_read", lineNum)
		}

		if limit > 0 && len(records) >= limit {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}

	slog.Debug("Finished reading JSONL dataset", "total_records", len(records))

	return records, nil
}

// loadParquet loads records from a Parquet file
func (l *Loader) loadParquet(limit int) ([]CaptionRecord, error) {
	slog.Debug("Opening Parquet dataset", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet dataset opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[CaptionRecord](pf)
	defer reader.Close()

	var records []CaptionRecord
	rows := make([]CaptionRecord, 128) // Read in batches

	batchNum := 0
	for {
		n, err := reader.Read(rows)
		if n > 0 {
			batchNum++
			if limit > 0 {
				if remaining := limit - len(records); n > remaining {
					n = remaining
				}
			}
			records = append(records, rows[:n]...)
			slog.Debug("Read batch from Parquet", "batch", batchNum, "rows_in_batch", n, "total_rows_read", len(records))

			// Log first record for verification
			if batchNum == 1 {
				slog.Debug("First record sample",
					"id", rows[0].ID,
					"title", rows[0].Title,
					"album", rows[0].Album,
					"tags", len(rows[0].Tags))
			}
		}
		if limit > 0 && len(records) >= limit {
			break
		}
		if err != nil {
			if err != io.EOF {
				return nil, fmt.Errorf("failed to read parquet rows: %w", err)
			}
			break
		}
	}

	slog.Debug("Finished reading Parquet dataset", "total_records", len(records), "total_batches", batchNum)

	return records, nil
}
