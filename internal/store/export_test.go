package store

import (
	"bytes"
	"encoding/csv"

	"cotiza/internal/types"
)

func (s *StoreTestSuite) TestExportCSV() {
	c, err := s.st.AddClient(s.ctx, types.ClientInput{
		Name:    "Acme, Hermanos y Cía.",
		Code:    "ACM",
		Email:   "a@b.com",
		Phone:   "1",
		Address: "x",
	})
	s.Require().NoError(err)
	q, err := s.st.CreateQuotation(s.ctx, c.ID, "T")
	s.Require().NoError(err)
	items := []types.Deliverable{{ID: "d1", Quantity: 1, UnitPrice: 100}}
	_, err = s.st.UpdateQuotation(s.ctx, q.ID, types.QuotationPatch{Deliverables: &items})
	s.Require().NoError(err)

	var buf bytes.Buffer
	s.Require().NoError(s.st.ExportCSV(&buf))

	// The comma in the client name must survive a CSV round trip.
	rows, err := csv.NewReader(&buf).ReadAll()
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal(csvHeader, rows[0])
	s.Equal(q.Number, rows[1][0])
	s.Equal("Acme, Hermanos y Cía.", rows[1][1])
	s.Equal("draft", rows[1][3])
	s.Equal("119.00", rows[1][4])
}

func (s *StoreTestSuite) TestExportCSVOrphanClient() {
	c := s.addClient("Acme", "ACM")
	q, err := s.st.CreateQuotation(s.ctx, c.ID, "T")
	s.Require().NoError(err)

	// Drop the client from under the quotation to simulate legacy data
	// created before the deletion guard existed.
	s.st.mu.Lock()
	s.st.clients = nil
	s.st.mu.Unlock()

	var buf bytes.Buffer
	s.Require().NoError(s.st.ExportCSV(&buf))
	rows, err := csv.NewReader(&buf).ReadAll()
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal(q.Number, rows[1][0])
	s.Equal("", rows[1][1])
}
