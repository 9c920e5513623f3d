package types

import "time"

// Status is the lifecycle state of a quotation.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// Statuses lists every valid Status in display order.
var Statuses = []Status{StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusExpired}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// ProjectAbstract summarizes the proposed project.
type ProjectAbstract struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Objectives  []string `json:"objectives"`
}

// Deliverable is a priced line item: Quantity x UnitPrice = Total.
// Total is maintained by the store whenever deliverables are touched.
type Deliverable struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

type TimelinePhase struct {
	Name      string    `json:"name"`
	Duration  string    `json:"duration"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type Timeline struct {
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Phases    []TimelinePhase `json:"phases"`
}

type CommercialConditions struct {
	Currency        string   `json:"currency"`
	PaymentTerms    string   `json:"payment_terms"`
	ValidityDays    int      `json:"validity_days"`
	Warranty        string   `json:"warranty"`
	AdditionalTerms []string `json:"additional_terms"`
}

// OptionalItem is a selectable add-on; its price only counts toward the
// totals while Selected is true.
type OptionalItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Selected    bool    `json:"selected"`
}

// BankingDetails also appears in the company profile YAML, hence the
// double tagging.
type BankingDetails struct {
	BankName      string `json:"bank_name" yaml:"bank_name"`
	AccountType   string `json:"account_type" yaml:"account_type"`
	AccountNumber string `json:"account_number" yaml:"account_number"`
	TaxID         string `json:"tax_id" yaml:"tax_id"`
}

// Totals is the derived money block of a quotation. Tax applies to the
// subtotal including selected optional items. All amounts are rounded at
// the currency minor unit so repeated recomputation is stable.
type Totals struct {
	Subtotal             float64 `json:"subtotal"`
	OptionalSelected     float64 `json:"optional_selected"`
	SubtotalWithOptional float64 `json:"subtotal_with_optional"`
	Tax                  float64 `json:"tax"`
	Total                float64 `json:"total"`
}

// Quotation is the full document. Number is the human-readable sequential
// identifier (<prefix>-<year>-<seq>), distinct from ID. ClientID is checked
// against the client collection at creation time only; the reference is not
// maintained afterwards.
type Quotation struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"client_id"`
	Number     string    `json:"number"`
	Title      string    `json:"title"`
	Status     Status    `json:"status"`
	ValidUntil time.Time `json:"valid_until"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	ProjectAbstract      ProjectAbstract      `json:"project_abstract"`
	Deliverables         []Deliverable        `json:"deliverables"`
	Assumptions          []string             `json:"assumptions"`
	Timeline             Timeline             `json:"timeline"`
	CommercialConditions CommercialConditions `json:"commercial_conditions"`
	OptionalItems        []OptionalItem       `json:"optional_items"`
	BankingDetails       BankingDetails       `json:"banking_details"`
	Notes                string               `json:"notes"`

	Totals Totals `json:"totals"`
}

// Clone returns a deep copy; slices inside sections are duplicated so the
// copy never aliases the source.
func (q Quotation) Clone() Quotation {
	out := q
	out.ProjectAbstract.Objectives = append([]string(nil), q.ProjectAbstract.Objectives...)
	out.Deliverables = append([]Deliverable(nil), q.Deliverables...)
	out.Assumptions = append([]string(nil), q.Assumptions...)
	out.Timeline.Phases = append([]TimelinePhase(nil), q.Timeline.Phases...)
	out.CommercialConditions.AdditionalTerms = append([]string(nil), q.CommercialConditions.AdditionalTerms...)
	out.OptionalItems = append([]OptionalItem(nil), q.OptionalItems...)
	return out
}

// QuotationPatch is a partial update; nil fields are left untouched.
// Deliverables and OptionalItems replace the whole list when set.
type QuotationPatch struct {
	Title                *string               `json:"title,omitempty"`
	Status               *Status               `json:"status,omitempty"`
	ValidUntil           *time.Time            `json:"valid_until,omitempty"`
	ProjectAbstract      *ProjectAbstract      `json:"project_abstract,omitempty"`
	Deliverables         *[]Deliverable        `json:"deliverables,omitempty"`
	Assumptions          *[]string             `json:"assumptions,omitempty"`
	Timeline             *Timeline             `json:"timeline,omitempty"`
	CommercialConditions *CommercialConditions `json:"commercial_conditions,omitempty"`
	OptionalItems        *[]OptionalItem       `json:"optional_items,omitempty"`
	BankingDetails       *BankingDetails       `json:"banking_details,omitempty"`
	Notes                *string               `json:"notes,omitempty"`
}

// TouchesItems reports whether the patch replaces deliverables or optional
// items, i.e. whether totals must be recomputed.
func (p QuotationPatch) TouchesItems() bool {
	return p.Deliverables != nil || p.OptionalItems != nil
}

// Apply merges the non-nil patch fields into q. Status validity is the
// caller's concern; the store rejects invalid values before applying.
func (p QuotationPatch) Apply(q *Quotation) {
	if p.Title != nil {
		q.Title = *p.Title
	}
	if p.Status != nil {
		q.Status = *p.Status
	}
	if p.ValidUntil != nil {
		q.ValidUntil = *p.ValidUntil
	}
	if p.ProjectAbstract != nil {
		q.ProjectAbstract = *p.ProjectAbstract
	}
	if p.Deliverables != nil {
		q.Deliverables = append([]Deliverable(nil), (*p.Deliverables)...)
	}
	if p.Assumptions != nil {
		q.Assumptions = append([]string(nil), (*p.Assumptions)...)
	}
	if p.Timeline != nil {
		q.Timeline = *p.Timeline
	}
	if p.CommercialConditions != nil {
		q.CommercialConditions = *p.CommercialConditions
	}
	if p.OptionalItems != nil {
		q.OptionalItems = append([]OptionalItem(nil), (*p.OptionalItems)...)
	}
	if p.BankingDetails != nil {
		q.BankingDetails = *p.BankingDetails
	}
	if p.Notes != nil {
		q.Notes = *p.Notes
	}
}
