package entity

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew_Valid(t *testing.T) {
	e, err := New(Speaker, "ada-lovelace", "Ada Lovelace", "conf-2025",
		map[string]string{"title": "Countess", "bio": "Analytical engines"},
		map[string]string{"country": "UK"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID() != "ada-lovelace" || e.Kind() != Speaker || e.EventID() != "conf-2025" {
		t.Errorf("unexpected entity %+v", e)
	}
	if e.Facet("country") != "UK" {
		t.Errorf("expected country UK, got %q", e.Facet("country"))
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		id      string
		entName string
		eventID string
		fields  map[string]string
		facets  map[string]string
	}{
		{"bad kind", "sponsor", "x", "X", "", nil, nil},
		{"empty id", Speaker, "", "X", "", nil, nil},
		{"id with slash", Speaker, "a/b", "X", "", nil, nil},
		{"long id", Speaker, strings.Repeat("a", MaxIDLength+1), "X", "", nil, nil},
		{"empty name", Speaker, "x", "", "", nil, nil},
		{"long name", Speaker, "x", strings.Repeat("n", MaxNameLength+1), "", nil, nil},
		{"bad event", Speaker, "x", "X", "ev 1", nil, nil},
		{"bad field name", Speaker, "x", "X", "", map[string]string{"a b": "v"}, nil},
		{"huge field", Speaker, "x", "X", "", map[string]string{"bio": strings.Repeat("b", MaxFieldBytes+1)}, nil},
		{"bad facet name", Speaker, "x", "X", "", nil, map[string]string{"-x": "v"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.kind, tt.id, tt.entName, tt.eventID, tt.fields, tt.facets); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSearchable_NameThenFieldsInKeyOrder(t *testing.T) {
	e := Reconstruct(Exhibitor, "acme", "Acme", "", map[string]string{"zeta": "z", "alpha": "a"}, nil)
	if diff := cmp.Diff([]string{"Acme", "a", "z"}, e.Searchable()); diff != "" {
		t.Errorf("searchable mismatch (-want +got):\n%s", diff)
	}
}

func TestReconstruct_CopiesMaps(t *testing.T) {
	facets := map[string]string{"country": "DE"}
	e := Reconstruct(Community, "m1", "Member", "", nil, facets)
	facets["country"] = "FR"
	if e.Facet("country") != "DE" {
		t.Error("entity must not alias caller maps")
	}
	got := e.Facets()
	got["country"] = "US"
	if e.Facet("country") != "DE" {
		t.Error("Facets must return a copy")
	}
}

func TestAccessor(t *testing.T) {
	e := Reconstruct(Market, "item-1", "Lamp", "", map[string]string{"desc": "brass"}, map[string]string{"category": "home"})
	acc := Accessor()

	if acc.IDOf(e) != "item-1" || acc.NameOf(e) != "Lamp" {
		t.Errorf("unexpected projection id=%q name=%q", acc.IDOf(e), acc.NameOf(e))
	}
	if acc.FacetOf(e, "category") != "home" {
		t.Errorf("unexpected facet %q", acc.FacetOf(e, "category"))
	}
	if diff := cmp.Diff([]string{"Lamp", "brass"}, acc.SearchableOf(e)); diff != "" {
		t.Errorf("searchable mismatch (-want +got):\n%s", diff)
	}
}

func TestKind_IsValid(t *testing.T) {
	for _, k := range []Kind{Speaker, Exhibitor, Community, Market} {
		if !k.IsValid() {
			t.Errorf("expected %q valid", k)
		}
	}
	if Kind("SPEAKER").IsValid() {
		t.Error("kinds are case-sensitive")
	}
}
