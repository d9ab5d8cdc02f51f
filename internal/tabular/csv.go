package tabular

import (
	"encoding/csv"
	"io"

	"github.com/dukerupert/nursery/internal/domain"
)

// ReadCSV parses CSV with a header row. Quoting is lenient and ragged
// rows are allowed; leading blank lines and a UTF-8 BOM are skipped.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, domain.WrapError(err, domain.EFORMAT, "tabular.read_csv", "malformed CSV")
	}
	return newTable(records), nil
}

// WriteCSV writes the header followed by every row in header order.
func WriteCSV(w io.Writer, t *Table) error {
	const op = "tabular.write_csv"

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return domain.Internal(err, op, "failed to write header")
	}
	rec := make([]string, len(t.Header))
	for _, row := range t.Rows {
		for i, h := range t.Header {
			rec[i] = row[h]
		}
		if err := cw.Write(rec); err != nil {
			return domain.Internal(err, op, "failed to write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return domain.Internal(err, op, "failed to flush CSV")
	}
	return nil
}
