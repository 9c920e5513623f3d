package store

import (
	"encoding/csv"
	"io"
	"strconv"
)

// csvHeader is the fixed export column set.
var csvHeader = []string{"number", "client", "date", "status", "total", "valid_until"}

// ExportCSV writes the quotation list as RFC 4180 CSV. Fields are quoted
// and escaped by the encoder, so free text containing commas survives.
// Quotations whose client has been deleted export with an empty client
// column.
func (s *Store) ExportCSV(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make(map[string]string, len(s.clients))
	for _, c := range s.clients {
		names[c.ID] = c.Name
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, q := range s.quotations {
		row := []string{
			q.Number,
			names[q.ClientID],
			q.CreatedAt.Format("2006-01-02"),
			string(q.Status),
			strconv.FormatFloat(q.Totals.Total, 'f', 2, 64),
			q.ValidUntil.Format("2006-01-02"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
