package store

import (
	"bytes"

	"cotiza/internal/backends/memory"
	"cotiza/internal/types"
)

func (s *StoreTestSuite) TestBackupRestoreRoundTrip() {
	s.Require().NoError(s.st.Initialize(s.ctx))
	before := s.st.Stats()

	var buf bytes.Buffer
	s.Require().NoError(s.st.Backup(&buf))
	s.NotZero(buf.Len())

	s.Require().NoError(s.st.ClearAll(s.ctx))
	s.Empty(s.st.Clients())

	s.Require().NoError(s.st.Restore(s.ctx, &buf))
	s.Equal(before, s.st.Stats())

	// The restore persisted: a fresh store sees the same state.
	reloaded := New(s.kv, testProfile())
	s.Require().NoError(reloaded.Initialize(s.ctx))
	s.Equal(before, reloaded.Stats())
}

func (s *StoreTestSuite) TestRestoreRejectsGarbage() {
	err := s.st.Restore(s.ctx, bytes.NewReader([]byte("definitely not zstd")))
	s.Error(err)
	s.Empty(s.st.Clients())
}

func (s *StoreTestSuite) TestBackupCarriesProfile() {
	s.addClient("Acme", "ACM")

	var buf bytes.Buffer
	s.Require().NoError(s.st.Backup(&buf))

	other := New(memory.NewKV(), types.CompanyProfile{Name: "Other Co", TaxRate: 0.1, ValidityDays: 15, QuotePrefix: "OTR"})
	s.Require().NoError(other.Restore(s.ctx, &buf))
	s.Len(other.Clients(), 1)
	// The restoring store keeps its own profile.
	s.Equal("Other Co", other.Profile().Name)
}
