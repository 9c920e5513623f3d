package store

import (
	"sort"

	"cotiza/internal/query"
	"cotiza/internal/types"
)

// Stats is the dashboard aggregate block. It is always computed from the
// live collections, never cached.
type Stats struct {
	TotalQuotations int                  `json:"total_quotations"`
	ByStatus        map[types.Status]int `json:"by_status"`
	TotalClients    int                  `json:"total_clients"`
	TotalRevenue    float64              `json:"total_revenue"`
}

// Stats recomputes the dashboard aggregates. Revenue counts approved
// quotations only.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{
		TotalQuotations: len(s.quotations),
		ByStatus:        make(map[types.Status]int, len(types.Statuses)),
		TotalClients:    len(s.clients),
	}
	for _, status := range types.Statuses {
		st.ByStatus[status] = 0
	}
	for _, q := range s.quotations {
		st.ByStatus[q.Status]++
		if q.Status == types.StatusApproved {
			st.TotalRevenue += q.Totals.Total
		}
	}
	st.TotalRevenue = roundMinor(st.TotalRevenue)
	return st
}

// QuotationsByStatus returns the quotations currently in the given status.
func (s *Store) QuotationsByStatus(status types.Status) []types.Quotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Quotation
	for _, q := range s.quotations {
		if q.Status == status {
			out = append(out, q.Clone())
		}
	}
	return out
}

// QuotationsForClient returns the quotations referencing the client, in
// insertion order. Orphans show up here for no client at all; the store
// does not clean them up.
func (s *Store) QuotationsForClient(clientID string) []types.Quotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Quotation
	for _, q := range s.quotations {
		if q.ClientID == clientID {
			out = append(out, q.Clone())
		}
	}
	return out
}

// RecentQuotations returns up to n quotations ordered by update time,
// newest first.
func (s *Store) RecentQuotations(n int) []types.Quotation {
	all := s.Quotations()
	sort.Slice(all, func(i, j int) bool {
		return all[i].UpdatedAt.After(all[j].UpdatedAt)
	})
	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// FilterQuotations keeps the quotations for which the JMESPath expression
// evaluates to true over the document's JSON form, e.g.
// "status == 'approved'".
func (s *Store) FilterQuotations(expression string) ([]types.Quotation, error) {
	all := s.Quotations()
	var out []types.Quotation
	for _, q := range all {
		doc, err := query.ToDoc(q)
		if err != nil {
			return nil, err
		}
		ok, err := query.Match(expression, doc)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, q)
		}
	}
	return out, nil
}
