package types

import "time"

// Client is a billing counterpart a quotation is addressed to.
// Code is a short uppercase mnemonic (e.g. "VDS") used as the prefix of
// quotation numbers issued to this client; when empty the company-wide
// prefix is used instead.
// No uniqueness is enforced on Name or Email.
type Client struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	TaxID         string    `json:"tax_id,omitempty"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ClientInput is the caller-provided part of a Client; identifier and
// timestamps are assigned by the store.
type ClientInput struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	TaxID         string `json:"tax_id,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	Industry      string `json:"industry,omitempty"`
}

// ClientPatch is a partial update; nil fields are left untouched.
type ClientPatch struct {
	Name          *string `json:"name,omitempty"`
	Code          *string `json:"code,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	TaxID         *string `json:"tax_id,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	Industry      *string `json:"industry,omitempty"`
}

// Apply merges the non-nil patch fields into c.
func (p ClientPatch) Apply(c *Client) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Code != nil {
		c.Code = *p.Code
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.TaxID != nil {
		c.TaxID = *p.TaxID
	}
	if p.ContactPerson != nil {
		c.ContactPerson = *p.ContactPerson
	}
	if p.Industry != nil {
		c.Industry = *p.Industry
	}
}
