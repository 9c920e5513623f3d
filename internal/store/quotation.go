package store

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cotiza/internal/types"
)

// CreateQuotation starts a new draft for an existing client. The client
// lookup is the one hard creation dependency: an unknown clientID fails
// with ErrClientNotFound and leaves both collections and the backend
// untouched. Commercial conditions and banking details are prefilled from
// the company profile.
func (s *Store) CreateQuotation(ctx context.Context, clientID, title string) (types.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.clientIndexLocked(clientID)
	if idx < 0 {
		return types.Quotation{}, fmt.Errorf("client %s: %w", clientID, types.ErrClientNotFound)
	}
	q := s.createQuotationLocked(s.clients[idx], title)
	s.persistLocked(ctx)
	return q, nil
}

func (s *Store) createQuotationLocked(c types.Client, title string) types.Quotation {
	now := s.now()
	q := types.Quotation{
		ID:         s.newID(),
		ClientID:   c.ID,
		Number:     s.nextNumberLocked(c.Code),
		Title:      title,
		Status:     types.StatusDraft,
		ValidUntil: now.AddDate(0, 0, s.profile.ValidityDays),
		CreatedAt:  now,
		UpdatedAt:  now,
		ProjectAbstract: types.ProjectAbstract{
			Objectives: []string{},
		},
		Deliverables: []types.Deliverable{},
		Assumptions:  []string{},
		Timeline:     types.Timeline{Phases: []types.TimelinePhase{}},
		CommercialConditions: types.CommercialConditions{
			Currency:        s.profile.Currency,
			PaymentTerms:    s.profile.PaymentTerms,
			ValidityDays:    s.profile.ValidityDays,
			AdditionalTerms: []string{},
		},
		OptionalItems:  []types.OptionalItem{},
		BankingDetails: s.profile.Banking,
	}
	ComputeTotals(&q, s.profile.TaxRate)
	s.quotations = append(s.quotations, q)
	return q
}

// UpdateQuotation merges the patch and persists. Whenever the patch touches
// deliverables or optional items the totals are recomputed before the
// write; that is the single recomputation policy, callers never maintain
// totals themselves.
func (s *Store) UpdateQuotation(ctx context.Context, id string, patch types.QuotationPatch) (types.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.quotationIndexLocked(id)
	if idx < 0 {
		return types.Quotation{}, fmt.Errorf("quotation %s: %w", id, types.ErrNotFound)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return types.Quotation{}, fmt.Errorf("status %q: %w", *patch.Status, types.ErrInvalidStatus)
	}
	q := &s.quotations[idx]
	patch.Apply(q)
	if patch.TouchesItems() {
		ComputeTotals(q, s.profile.TaxRate)
	}
	q.UpdatedAt = s.now()
	s.persistLocked(ctx)
	return *q, nil
}

// DeleteQuotation removes by identifier; unknown identifiers are a no-op.
func (s *Store) DeleteQuotation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.quotationIndexLocked(id)
	if idx < 0 {
		return nil
	}
	s.quotations = append(s.quotations[:idx], s.quotations[idx+1:]...)
	s.persistLocked(ctx)
	return nil
}

// DuplicateQuotation deep-clones the source document under a fresh
// identifier and number, resets the status to draft and restarts the
// validity window.
func (s *Store) DuplicateQuotation(ctx context.Context, id string) (types.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.quotationIndexLocked(id)
	if idx < 0 {
		return types.Quotation{}, fmt.Errorf("quotation %s: %w", id, types.ErrNotFound)
	}
	src := s.quotations[idx]

	code := ""
	if ci := s.clientIndexLocked(src.ClientID); ci >= 0 {
		code = s.clients[ci].Code
	}
	now := s.now()
	dup := src.Clone()
	dup.ID = s.newID()
	dup.Number = s.nextNumberLocked(code)
	dup.Status = types.StatusDraft
	dup.ValidUntil = now.AddDate(0, 0, s.profile.ValidityDays)
	dup.CreatedAt = now
	dup.UpdatedAt = now
	s.quotations = append(s.quotations, dup)
	s.persistLocked(ctx)
	return dup, nil
}

// Quotation returns the quotation by identifier.
func (s *Store) Quotation(id string) (types.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.quotationIndexLocked(id)
	if idx < 0 {
		return types.Quotation{}, fmt.Errorf("quotation %s: %w", id, types.ErrNotFound)
	}
	return s.quotations[idx].Clone(), nil
}

// Quotations returns a copy of the quotation collection.
func (s *Store) Quotations() []types.Quotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Quotation, 0, len(s.quotations))
	for _, q := range s.quotations {
		out = append(out, q.Clone())
	}
	return out
}

func (s *Store) quotationIndexLocked(id string) int {
	for i := range s.quotations {
		if s.quotations[i].ID == id {
			return i
		}
	}
	return -1
}

// nextNumberLocked issues the next display number for the given client
// code: <prefix>-<year>-<seq>, three-digit zero-padded sequence scoped to
// prefix and year. The sequence is one past the highest already issued,
// scanned from the live collection, so a fresh number never collides with
// one still in the collection even after deletions. Clients without a code
// share the company-wide prefix.
func (s *Store) nextNumberLocked(clientCode string) string {
	prefix := clientCode
	if prefix == "" {
		prefix = s.profile.QuotePrefix
	}
	stub := fmt.Sprintf("%s-%d-", prefix, s.now().Year())
	maxSeq := 0
	for _, q := range s.quotations {
		rest, ok := strings.CutPrefix(q.Number, stub)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > maxSeq {
			maxSeq = n
		}
	}
	return fmt.Sprintf("%s%03d", stub, maxSeq+1)
}

// ComputeTotals recomputes every deliverable line total and the totals
// block in place: subtotal over deliverables, selected optional items
// folded in before tax. Amounts are rounded at the currency minor unit at
// every step so recomputing an unchanged document is a fixpoint.
func ComputeTotals(q *types.Quotation, taxRate float64) {
	subtotal := 0.0
	for i := range q.Deliverables {
		d := &q.Deliverables[i]
		d.Total = roundMinor(d.Quantity * d.UnitPrice)
		subtotal += d.Total
	}
	subtotal = roundMinor(subtotal)

	optional := 0.0
	for _, it := range q.OptionalItems {
		if it.Selected {
			optional += it.Price
		}
	}
	optional = roundMinor(optional)

	taxed := roundMinor(subtotal + optional)
	tax := roundMinor(taxed * taxRate)

	q.Totals = types.Totals{
		Subtotal:             subtotal,
		OptionalSelected:     optional,
		SubtotalWithOptional: taxed,
		Tax:                  tax,
		Total:                roundMinor(taxed + tax),
	}
}

// roundMinor rounds half away from zero at two decimals.
func roundMinor(v float64) float64 {
	return math.Round(v*100) / 100
}
