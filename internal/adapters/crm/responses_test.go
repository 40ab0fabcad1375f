// internal/adapters/crm/responses_test.go
package crm

import (
	"encoding/json"
	"testing"

	"leadrouter/internal/testutil"
)

func TestFlexString(t *testing.T) {
	var payload struct {
		A flexString `json:"a"`
		B flexString `json:"b"`
		C flexString `json:"c"`
		D flexString `json:"d"`
		E flexString `json:"e"`
	}

	raw := `{"a":"text","b":42,"c":3.5,"d":true,"e":null}`
	testutil.AssertNoError(t, json.Unmarshal([]byte(raw), &payload), "unmarshal")

	testutil.AssertEqual(t, payload.A.String(), "text", "string")
	testutil.AssertEqual(t, payload.B.String(), "42", "integer")
	testutil.AssertEqual(t, payload.C.String(), "3.5", "float")
	testutil.AssertEqual(t, payload.D.String(), "true", "bool")
	testutil.AssertEqual(t, payload.E.String(), "", "null")

	t.Run("unknown shape stays empty", func(t *testing.T) {
		var v struct {
			X flexString `json:"x"`
		}
		testutil.AssertNoError(t, json.Unmarshal([]byte(`{"x":{"nested":1}}`), &v), "unmarshal")
		testutil.AssertEqual(t, v.X.String(), "", "object ignored")
	})
}

func TestFlexInt64(t *testing.T) {
	var payload struct {
		A flexInt64 `json:"a"`
		B flexInt64 `json:"b"`
		C flexInt64 `json:"c"`
	}

	raw := `{"a":7,"b":"8","c":"not a number"}`
	testutil.AssertNoError(t, json.Unmarshal([]byte(raw), &payload), "unmarshal")

	testutil.AssertEqual(t, int64(payload.A), int64(7), "number")
	testutil.AssertEqual(t, int64(payload.B), int64(8), "quoted number")
	testutil.AssertEqual(t, int64(payload.C), int64(0), "garbage defaults to zero")
}

func TestListResponseCards(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"items key", `{"items":[{"id":1},{"id":2}]}`, 2},
		{"data key", `{"data":[{"id":1}]}`, 1},
		{"cards key", `{"cards":[{"id":1}]}`, 1},
		{"empty items beats populated cards", `{"items":[],"cards":[{"id":1}]}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var resp listResponse
			testutil.AssertNoError(t, json.Unmarshal([]byte(tc.raw), &resp), "unmarshal")
			testutil.AssertEqual(t, len(resp.cards()), tc.want, "card count")
		})
	}
}

func TestListResponseHasNext(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		returned int
		perPage  int
		want     bool
	}{
		{"next link", `{"links":{"next":"/cards?page=2"}}`, 10, 50, true},
		{"empty next link falls through", `{"links":{"next":""}}`, 10, 50, false},
		{"last_page with more", `{"page":1,"last_page":3}`, 50, 50, true},
		{"last_page reached", `{"page":3,"last_page":3}`, 50, 50, false},
		{"total_pages with more", `{"page":1,"total_pages":2}`, 50, 50, true},
		{"full page heuristic", `{}`, 50, 50, true},
		{"short page heuristic", `{}`, 20, 50, false},
		{"empty page heuristic", `{}`, 0, 50, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var resp listResponse
			testutil.AssertNoError(t, json.Unmarshal([]byte(tc.raw), &resp), "unmarshal")
			if got := resp.hasNext(tc.returned, tc.perPage); got != tc.want {
				t.Errorf("hasNext(%d, %d) = %v, want %v", tc.returned, tc.perPage, got, tc.want)
			}
		})
	}
}

func TestWireCardToDomain(t *testing.T) {
	raw := `{
		"id": "99",
		"pipeline_id": 10,
		"status_id": "100",
		"title": "Lead",
		"status_changed_at": 1700000000,
		"contact": {"full_name": "Jane", "profiles": [{"label": "ig", "value": "@jane"}]},
		"clients": [{"social_id": "@linked"}]
	}`

	var card wireCard
	testutil.AssertNoError(t, json.Unmarshal([]byte(raw), &card), "unmarshal")

	got := card.toDomain()
	testutil.AssertEqual(t, got.ID, int64(99), "quoted id")
	testutil.AssertEqual(t, got.PipelineID, "10", "numeric pipeline id")
	testutil.AssertNotNil(t, got.Contact, "contact")
	testutil.AssertEqual(t, got.Contact.Profiles[0].Value, "@jane", "profile")
	testutil.AssertEqual(t, got.Clients[0].SocialID, "@linked", "linked client")

	// the raw timestamp shape is preserved for the sweep to interpret
	if _, ok := got.StatusChangedAt.(float64); !ok {
		t.Errorf("timestamp type changed: %T", got.StatusChangedAt)
	}
}
