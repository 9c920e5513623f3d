package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"

	"cotiza/internal/backends/memory"
	"cotiza/internal/ports"
	"cotiza/internal/types"
)

type StoreTestSuite struct {
	suite.Suite

	kv  *memory.KV
	st  *Store
	ctx context.Context
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func testProfile() types.CompanyProfile {
	p := types.CompanyProfile{
		Name:         "Test Co",
		PaymentTerms: "30 días",
		Banking: types.BankingDetails{
			BankName:      "Banco Test",
			AccountType:   "Corriente",
			AccountNumber: "000111222",
			TaxID:         "11.111.111-1",
		},
	}
	p.Normalize()
	return p
}

func (s *StoreTestSuite) SetupTest() {
	s.kv = memory.NewKV()
	s.st = New(s.kv, testProfile())
	s.ctx = context.Background()
}

func (s *StoreTestSuite) addClient(name, code string) types.Client {
	c, err := s.st.AddClient(s.ctx, types.ClientInput{
		Name:    name,
		Code:    code,
		Email:   "a@b.com",
		Phone:   "1",
		Address: "x",
	})
	s.Require().NoError(err)
	return c
}

func (s *StoreTestSuite) TestAddClient() {
	before := len(s.st.Clients())
	c := s.addClient("Acme", "ACM")
	s.NotEmpty(c.ID)
	s.False(c.CreatedAt.IsZero())
	s.Len(s.st.Clients(), before+1)

	// Unique identifiers across creations.
	seen := map[string]bool{c.ID: true}
	for i := 0; i < 10; i++ {
		c2 := s.addClient("Acme", "ACM")
		s.False(seen[c2.ID])
		seen[c2.ID] = true
	}
}

func (s *StoreTestSuite) TestClientPersistedRoundTrip() {
	c := s.addClient("Acme", "ACM")

	// A fresh store over the same backend must read back the identical
	// serialized record.
	reloaded := New(s.kv, testProfile())
	s.Require().NoError(reloaded.Initialize(s.ctx))
	got, err := reloaded.Client(c.ID)
	s.Require().NoError(err)

	want, _ := json.Marshal(c)
	have, _ := json.Marshal(got)
	s.JSONEq(string(want), string(have))
}

func (s *StoreTestSuite) TestUpdateClient() {
	c := s.addClient("Acme", "ACM")
	name := "Acme Ltda."
	got, err := s.st.UpdateClient(s.ctx, c.ID, types.ClientPatch{Name: &name})
	s.Require().NoError(err)
	s.Equal("Acme Ltda.", got.Name)
	s.Equal(c.Email, got.Email)
	s.True(got.UpdatedAt.After(c.UpdatedAt) || got.UpdatedAt.Equal(c.UpdatedAt))

	_, err = s.st.UpdateClient(s.ctx, "nope", types.ClientPatch{Name: &name})
	s.ErrorIs(err, types.ErrNotFound)
}

func (s *StoreTestSuite) TestDeleteClientIdempotent() {
	c := s.addClient("Acme", "ACM")
	s.Require().NoError(s.st.DeleteClient(s.ctx, c.ID))
	s.Empty(s.st.Clients())

	// Second delete is a no-op, not an error.
	s.NoError(s.st.DeleteClient(s.ctx, c.ID))
	s.Empty(s.st.Clients())
}

func (s *StoreTestSuite) TestDeleteClientBlockedByQuotations() {
	c := s.addClient("Acme", "ACM")
	_, err := s.st.CreateQuotation(s.ctx, c.ID, "T")
	s.Require().NoError(err)

	err = s.st.DeleteClient(s.ctx, c.ID)
	s.ErrorIs(err, types.ErrClientHasQuotations)
	s.Len(s.st.Clients(), 1)
	s.Len(s.st.Quotations(), 1)
}

func (s *StoreTestSuite) TestCreateQuotationDefaults() {
	c := s.addClient("Acme", "ACM")
	q, err := s.st.CreateQuotation(s.ctx, c.ID, "T")
	s.Require().NoError(err)

	s.Equal(types.StatusDraft, q.Status)
	s.Equal("T", q.Title)
	s.Equal(c.ID, q.ClientID)
	s.Zero(q.Totals.Total)
	s.Equal(testProfile().Banking, q.BankingDetails)
	s.Equal(testProfile().Currency, q.CommercialConditions.Currency)
	s.WithinDuration(q.CreatedAt.AddDate(0, 0, types.DefaultValidityDays), q.ValidUntil, time.Second)
}

func (s *StoreTestSuite) TestCreateQuotationUnknownClient() {
	spy := &countingKV{KVStore: s.kv}
	s.st.kv = spy

	_, err := s.st.CreateQuotation(s.ctx, "missing", "T")
	s.ErrorIs(err, types.ErrClientNotFound)
	s.Empty(s.st.Quotations())
	s.Zero(spy.puts, "a failed creation must not write to the backend")
}

func (s *StoreTestSuite) TestNumbering() {
	c := s.addClient("Acme", "VDS")
	year := time.Now().Year()

	var ids, numbers []string
	for i := 0; i < 5; i++ {
		q, err := s.st.CreateQuotation(s.ctx, c.ID, "T")
		s.Require().NoError(err)
		ids = append(ids, q.ID)
		numbers = append(numbers, q.Number)
	}
	s.Equal([]string{
		formatNumber("VDS", year, 1),
		formatNumber("VDS", year, 2),
		formatNumber("VDS", year, 3),
		formatNumber("VDS", year, 4),
		formatNumber("VDS", year, 5),
	}, numbers)

	// Deleting a middle document never causes a collision with a live
	// number: the sequence continues past the highest issued.
	s.Require().NoError(s.st.DeleteQuotation(s.ctx, ids[2]))
	q, err := s.st.CreateQuotation(s.ctx, c.ID, "T")
	s.Require().NoError(err)
	s.Equal(formatNumber("VDS", year, 6), q.Number)

	seen := map[string]bool{}
	for _, cur := range s.st.Quotations() {
		s.False(seen[cur.Number], "duplicate number %s", cur.Number)
		seen[cur.Number] = true
	}
}

func (s *StoreTestSuite) TestNumberingFallbackPrefix() {
	c := s.addClient("No Code", "")
	q, err := s.st.CreateQuotation(s.ctx, c.ID, "T")
	s.Require().NoError(err)
	s.Equal(formatNumber(types.DefaultQuotePrefix, time.Now().Year(), 1), q.Number)
}

func (s *StoreTestSuite) TestUpdateQuotationRecomputesTotals() {
	c := s.addClient("Acme", "ACM")
	q, err := s.st.CreateQuotation(s.ctx, c.ID, "T")
	s.Require().NoError(err)

	items := []types.Deliverable{
		{ID: "d1", Name: "Dev", Quantity: 2, Unit: "h", UnitPrice: 100},
		{ID: "d2", Name: "QA", Quantity: 1, Unit: "h", UnitPrice: 50},
	}
	got, err := s.st.UpdateQuotation(s.ctx, q.ID, types.QuotationPatch{Deliverables: &items})
	s.Require().NoError(err)
	s.Equal(250.0, got.Totals.Subtotal)
	s.Equal(47.5, got.Totals.Tax)
	s.Equal(297.5, got.Totals.Total)
	s.Equal(200.0, got.Deliverables[0].Total)

	// Selected optional items are folded in before tax.
	opts := []types.OptionalItem{
		{ID: "o1", Name: "Training", Price: 100, Selected: true},
		{ID: "o2", Name: "Support", Price: 999, Selected: false},
	}
	got, err = s.st.UpdateQuotation(s.ctx, q.ID, types.QuotationPatch{OptionalItems: &opts})
	s.Require().NoError(err)
	s.Equal(100.0, got.Totals.OptionalSelected)
	s.Equal(350.0, got.Totals.SubtotalWithOptional)
	s.Equal(416.5, got.Totals.Total)

	// A patch that does not touch items leaves totals alone.
	title := "T2"
	got, err = s.st.UpdateQuotation(s.ctx, q.ID, types.QuotationPatch{Title: &title})
	s.Require().NoError(err)
	s.Equal(416.5, got.Totals.Total)
}

func (s *StoreTestSuite) TestUpdateQuotationErrors() {
	_, err := s.st.UpdateQuotation(s.ctx, "nope", types.QuotationPatch{})
	s.ErrorIs(err, types.ErrNotFound)

	c := s.addClient("Acme", "ACM")
	q, err := s.st.CreateQuotation(s.ctx, c.ID, "T")
	s.Require().NoError(err)
	bad := types.Status("archived")
	_, err = s.st.UpdateQuotation(s.ctx, q.ID, types.QuotationPatch{Status: &bad})
	s.ErrorIs(err, types.ErrInvalidStatus)
}

func (s *StoreTestSuite) TestComputeTotalsIdempotent() {
	q := types.Quotation{
		Deliverables: []types.Deliverable{
			{Quantity: 3, UnitPrice: 0.1},
			{Quantity: 1, UnitPrice: 99.995},
		},
		OptionalItems: []types.OptionalItem{{Price: 10.004, Selected: true}},
	}
	ComputeTotals(&q, 0.19)
	first := q.Totals
	ComputeTotals(&q, 0.19)
	s.Equal(first, q.Totals)
	ComputeTotals(&q, 0.19)
	s.Equal(first, q.Totals)
}

func (s *StoreTestSuite) TestDuplicateQuotation() {
	c := s.addClient("Acme", "ACM")
	q, err := s.st.CreateQuotation(s.ctx, c.ID, "T")
	s.Require().NoError(err)
	items := []types.Deliverable{{ID: "d1", Name: "Dev", Quantity: 2, Unit: "h", UnitPrice: 100}}
	approved := types.StatusApproved
	q, err = s.st.UpdateQuotation(s.ctx, q.ID, types.QuotationPatch{Deliverables: &items, Status: &approved})
	s.Require().NoError(err)

	dup, err := s.st.DuplicateQuotation(s.ctx, q.ID)
	s.Require().NoError(err)
	s.NotEqual(q.ID, dup.ID)
	s.NotEqual(q.Number, dup.Number)
	s.Equal(types.StatusDraft, dup.Status)
	s.Equal(q.Title, dup.Title)
	s.Equal(q.Deliverables, dup.Deliverables)
	s.Equal(q.Totals, dup.Totals)

	_, err = s.st.DuplicateQuotation(s.ctx, "nope")
	s.ErrorIs(err, types.ErrNotFound)
}

func (s *StoreTestSuite) TestSeedFixture() {
	s.Require().NoError(s.st.Initialize(s.ctx))

	stats := s.st.Stats()
	s.Equal(3, stats.TotalClients)
	s.Equal(3, stats.TotalQuotations)
	s.Equal(1, stats.ByStatus[types.StatusApproved])
	s.Equal(1, stats.ByStatus[types.StatusPending])
	s.Equal(1, stats.ByStatus[types.StatusDraft])
	s.Equal(3332000.0, stats.TotalRevenue)

	// Idempotent: a second initialize changes nothing.
	s.Require().NoError(s.st.Initialize(s.ctx))
	s.Equal(stats, s.st.Stats())

	// And so does a fresh store over the same backend.
	again := New(s.kv, testProfile())
	s.Require().NoError(again.Initialize(s.ctx))
	s.Equal(stats, again.Stats())
}

func (s *StoreTestSuite) TestStatsLive() {
	c := s.addClient("Acme", "ACM")
	q, err := s.st.CreateQuotation(s.ctx, c.ID, "T")
	s.Require().NoError(err)
	items := []types.Deliverable{{ID: "d1", Quantity: 1, UnitPrice: 100}}
	approved := types.StatusApproved
	_, err = s.st.UpdateQuotation(s.ctx, q.ID, types.QuotationPatch{Deliverables: &items, Status: &approved})
	s.Require().NoError(err)

	s.Equal(119.0, s.st.Stats().TotalRevenue)

	s.Require().NoError(s.st.DeleteQuotation(s.ctx, q.ID))
	s.Zero(s.st.Stats().TotalRevenue)
}

func (s *StoreTestSuite) TestRecentQuotations() {
	base := time.Now()
	tick := 0
	s.st.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	c := s.addClient("Acme", "ACM")
	first, err := s.st.CreateQuotation(s.ctx, c.ID, "first")
	s.Require().NoError(err)
	second, err := s.st.CreateQuotation(s.ctx, c.ID, "second")
	s.Require().NoError(err)

	recent := s.st.RecentQuotations(10)
	s.Require().Len(recent, 2)
	s.Equal(second.ID, recent[0].ID)
	s.Equal(first.ID, recent[1].ID)

	// Updating bumps a document back to the front.
	title := "first again"
	_, err = s.st.UpdateQuotation(s.ctx, first.ID, types.QuotationPatch{Title: &title})
	s.Require().NoError(err)
	recent = s.st.RecentQuotations(1)
	s.Require().Len(recent, 1)
	s.Equal(first.ID, recent[0].ID)
}

func (s *StoreTestSuite) TestFilterQuotations() {
	c := s.addClient("Acme", "ACM")
	q, err := s.st.CreateQuotation(s.ctx, c.ID, "big one")
	s.Require().NoError(err)
	items := []types.Deliverable{{ID: "d1", Quantity: 1, UnitPrice: 5000}}
	_, err = s.st.UpdateQuotation(s.ctx, q.ID, types.QuotationPatch{Deliverables: &items})
	s.Require().NoError(err)
	_, err = s.st.CreateQuotation(s.ctx, c.ID, "small one")
	s.Require().NoError(err)

	got, err := s.st.FilterQuotations("totals.total > `1000`")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("big one", got[0].Title)

	_, err = s.st.FilterQuotations("totals.total >")
	s.Error(err)
}

func (s *StoreTestSuite) TestPersistFailureKeepsMemoryState() {
	s.st.kv = failKV{}
	c := s.addClient("Acme", "ACM")
	s.NotEmpty(c.ID)
	s.Len(s.st.Clients(), 1)
	s.True(s.st.LastSaved().IsZero())
}

func (s *StoreTestSuite) TestCorruptPayloadLoadsEmpty() {
	s.Require().NoError(s.kv.Put(s.ctx, keyClients, []byte("{not json")))
	s.Require().NoError(s.kv.Put(s.ctx, keyQuotations, []byte("[]")))

	st := New(s.kv, testProfile())
	s.Require().NoError(st.Initialize(s.ctx))
	// Both empty after the corrupt read, so the seed kicks in.
	s.Equal(3, st.Stats().TotalClients)
}

func (s *StoreTestSuite) TestClearAll() {
	s.Require().NoError(s.st.Initialize(s.ctx))
	s.Require().NoError(s.st.ClearAll(s.ctx))
	s.Empty(s.st.Clients())
	s.Empty(s.st.Quotations())
	_, err := s.kv.Get(s.ctx, keyClients)
	s.ErrorIs(err, types.ErrNotFound)
}

func formatNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, seq)
}

// countingKV counts writes so tests can assert no persistence happened.
type countingKV struct {
	ports.KVStore
	puts int
}

func (c *countingKV) Put(ctx context.Context, key string, value []byte) error {
	c.puts++
	return c.KVStore.Put(ctx, key, value)
}

// failKV rejects every operation.
type failKV struct{}

var errBroken = errors.New("backend broken")

func (failKV) Get(context.Context, string) ([]byte, error) { return nil, errBroken }
func (failKV) Put(context.Context, string, []byte) error   { return errBroken }
func (failKV) Delete(context.Context, string) error        { return errBroken }
