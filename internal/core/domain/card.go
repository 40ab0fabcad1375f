package domain

import (
	"fmt"
	"strings"
)

// ProfileField is one labeled value from a client's profile array, e.g.
// {Label: "Instagram", Value: "@user.name"}.
type ProfileField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Client is one node of a card's contact graph: the direct contact or a
// linked client record.
type Client struct {
	FullName string         `json:"full_name"`
	SocialID string         `json:"social_id"`
	Profiles []ProfileField `json:"profiles,omitempty"`
}

// Card is a lead card as read from the external directory. The directory
// owns it entirely; this engine only reads cards and issues move commands.
//
// StatusChangedAt and UpdatedAt are kept in their raw wire shape (number or
// string, ms or seconds, several date formats) and interpreted by the sweep.
type Card struct {
	ID              int64    `json:"id"`
	PipelineID      string   `json:"pipeline_id"`
	StatusID        string   `json:"status_id"`
	Title           string   `json:"title"`
	Contact         *Client  `json:"contact,omitempty"`
	Clients         []Client `json:"clients,omitempty"`
	StatusChangedAt any      `json:"status_changed_at,omitempty"`
	UpdatedAt       any      `json:"updated_at,omitempty"`
}

// IdentityCandidate is one matchable identity string extracted from a card's
// contact graph. Used only for matching, never persisted.
type IdentityCandidate struct {
	Path  string
	Value string
}

// IdentityCandidates walks the card's contact graph and extracts every
// candidate identity: the direct contact's full name and social id, the same
// for every linked client (path suffixed with the index when there is more
// than one), and any labeled profile values on linked clients.
func (c *Card) IdentityCandidates() []IdentityCandidate {
	var out []IdentityCandidate

	add := func(path, value string) {
		if strings.TrimSpace(value) != "" {
			out = append(out, IdentityCandidate{Path: path, Value: value})
		}
	}

	if c.Contact != nil {
		add("contact.full_name", c.Contact.FullName)
		add("contact.social_id", c.Contact.SocialID)
	}

	for i, client := range c.Clients {
		prefix := "client"
		if len(c.Clients) > 1 {
			prefix = fmt.Sprintf("client_%d", i)
		}
		add(prefix+".full_name", client.FullName)
		add(prefix+".social_id", client.SocialID)
		for _, p := range client.Profiles {
			label := strings.TrimSpace(p.Label)
			if label == "" {
				label = "profile"
			}
			add(prefix+".profiles."+label, p.Value)
		}
	}

	return out
}
