package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
)

// headerWords are first-row cells recognised as a column title
var headerWords = map[string]bool{
	"url": true, "urls": true, "link": true, "links": true, "enlace": true, "enlaces": true,
	"publicacion": true, "publicación": true, "publication": true, "post": true, "posts": true,
}

// ParseImportCSV reads publication URLs from the first column of a CSV
// document. Blank rows are skipped, and so is a first row holding a known
// column title. Any other cell is returned for per-row validation.
func ParseImportCSV(r io.Reader) ([]domain.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	rows := make([]domain.ImportRow, 0)
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.Invalid("file", fmt.Sprintf("malformed CSV: %v", err))
		}
		line, _ := reader.FieldPos(0)

		cell := strings.TrimSpace(strings.TrimPrefix(record[0], "\ufeff"))
		if cell == "" {
			continue
		}
		if first {
			first = false
			if headerWords[strings.ToLower(cell)] {
				continue
			}
		}
		rows = append(rows, domain.ImportRow{Line: line, URL: cell})
	}
	return rows, nil
}
