// internal/adapters/crm/responses.go
package crm

import (
	"encoding/json"
	"strconv"
	"strings"

	"leadrouter/internal/core/domain"
)

// flexString decodes a field that arrives as a string, number or boolean.
// The CRM's older endpoints serialize ids as numbers, newer ones as strings.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexString(strconv.FormatBool(b))
		return nil
	}

	// leave unknown shapes empty rather than fail the whole page
	*f = ""
	return nil
}

func (f flexString) String() string { return string(f) }

// flexInt64 decodes a numeric id that may arrive quoted.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(string(s), 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt64(n)
	return nil
}

// wireProfile is one labeled profile entry on a client record.
type wireProfile struct {
	Label flexString `json:"label"`
	Value flexString `json:"value"`
}

// wireClient is a contact or linked client record.
type wireClient struct {
	FullName flexString    `json:"full_name"`
	SocialID flexString    `json:"social_id"`
	Profiles []wireProfile `json:"profiles"`
}

func (c wireClient) toDomain() domain.Client {
	out := domain.Client{
		FullName: c.FullName.String(),
		SocialID: c.SocialID.String(),
	}
	for _, p := range c.Profiles {
		out.Profiles = append(out.Profiles, domain.ProfileField{
			Label: p.Label.String(),
			Value: p.Value.String(),
		})
	}
	return out
}

// wireCard is a card as the CRM serializes it. Timestamps stay raw: the sweep
// interprets them (ms, seconds, or date strings).
type wireCard struct {
	ID              flexInt64   `json:"id"`
	PipelineID      flexString  `json:"pipeline_id"`
	StatusID        flexString  `json:"status_id"`
	Title           flexString  `json:"title"`
	Contact         *wireClient `json:"contact"`
	Clients         []wireClient `json:"clients"`
	StatusChangedAt any         `json:"status_changed_at"`
	UpdatedAt       any         `json:"updated_at"`
}

func (c wireCard) toDomain() domain.Card {
	out := domain.Card{
		ID:              int64(c.ID),
		PipelineID:      c.PipelineID.String(),
		StatusID:        c.StatusID.String(),
		Title:           c.Title.String(),
		StatusChangedAt: c.StatusChangedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if c.Contact != nil {
		contact := c.Contact.toDomain()
		out.Contact = &contact
	}
	for _, cl := range c.Clients {
		out.Clients = append(out.Clients, cl.toDomain())
	}
	return out
}

// listResponse is one page of a card listing. Different CRM versions key the
// items differently and signal pagination differently; all observed shapes
// are read here.
type listResponse struct {
	Items []wireCard `json:"items"`
	Data  []wireCard `json:"data"`
	Cards []wireCard `json:"cards"`

	Links *struct {
		Next string `json:"next"`
	} `json:"links"`

	Page       int `json:"page"`
	LastPage   int `json:"last_page"`
	TotalPages int `json:"total_pages"`
}

func (r *listResponse) cards() []wireCard {
	switch {
	case r.Items != nil:
		return r.Items
	case r.Data != nil:
		return r.Data
	default:
		return r.Cards
	}
}

// hasNext derives the more-pages signal: a next link wins, then page
// counters, then the page-size-equals-returned-count heuristic.
func (r *listResponse) hasNext(returned, perPage int) bool {
	if r.Links != nil && r.Links.Next != "" {
		return true
	}
	if r.Page > 0 && r.LastPage > 0 {
		return r.Page < r.LastPage
	}
	if r.Page > 0 && r.TotalPages > 0 {
		return r.Page < r.TotalPages
	}
	return returned > 0 && returned == perPage
}

// cardResponse is a single-card detail payload, sometimes nested under a
// wrapper key.
type cardResponse struct {
	wireCard
	Card *wireCard `json:"card"`
}

func (r *cardResponse) toDomain() domain.Card {
	if r.Card != nil {
		return r.Card.toDomain()
	}
	return r.wireCard.toDomain()
}

// moveResponse is the move endpoint's body.
type moveResponse struct {
	OK      bool       `json:"ok"`
	Success *bool      `json:"success"`
	Message flexString `json:"message"`
}

func (r moveResponse) ok() bool {
	if r.Success != nil {
		return *r.Success
	}
	return r.OK
}

// wireStatus and wirePipeline are the pipeline directory payloads.
type wireStatus struct {
	ID    flexString `json:"id"`
	Title flexString `json:"title"`
	Name  flexString `json:"name"`
}

type wirePipeline struct {
	ID       flexString   `json:"id"`
	Title    flexString   `json:"title"`
	Name     flexString   `json:"name"`
	Statuses []wireStatus `json:"statuses"`
}

type pipelinesResponse struct {
	Items     []wirePipeline `json:"items"`
	Data      []wirePipeline `json:"data"`
	Pipelines []wirePipeline `json:"pipelines"`
}

func (r *pipelinesResponse) pipelines() []wirePipeline {
	switch {
	case r.Items != nil:
		return r.Items
	case r.Data != nil:
		return r.Data
	default:
		return r.Pipelines
	}
}

func (p wirePipeline) toDomain() domain.Pipeline {
	title := p.Title.String()
	if title == "" {
		title = p.Name.String()
	}
	out := domain.Pipeline{ID: p.ID.String(), Title: title}
	for _, s := range p.Statuses {
		st := s.Title.String()
		if st == "" {
			st = s.Name.String()
		}
		out.Statuses = append(out.Statuses, domain.Status{ID: s.ID.String(), Title: st})
	}
	return out
}
