package export

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/07fahim/EmailCraft-AI/internal/model"
)

// utf8BOM lets Excel detect the encoding when the file is double-clicked.
const utf8BOM = "\uFEFF"

var newlineFlattener = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// WriteCSV renders outcomes as RFC 4180 CSV with a UTF-8 BOM. Multi-line
// cell values are flattened to single lines so row counts survive naive
// line-based consumers.
func WriteCSV(w io.Writer, outcomes []model.Outcome) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Headers()); err != nil {
		return err
	}
	for _, o := range outcomes {
		row := cells(o)
		for i, cell := range row {
			row[i] = newlineFlattener.Replace(cell)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
