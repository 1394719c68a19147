package query

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"trims and folds", "  Ada LOVELACE ", "ada lovelace"},
		{"composes accents", "José", "josé"},
		{"folds sharp s", "STRASSE", "strasse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConstrains(t *testing.T) {
	for _, v := range []string{"", " ", "All", "all", " ALL "} {
		if Constrains(v) {
			t.Errorf("expected %q to be unconstrained", v)
		}
	}
	if !Constrains("Germany") {
		t.Error("expected Germany to constrain")
	}
}

func TestWithFacet_RemovesUnconstrained(t *testing.T) {
	q := Empty().WithFacet("country", "DE").WithFacet("track", "web")
	q = q.WithFacet("country", AllValue)

	if diff := cmp.Diff(map[string]string{"track": "web"}, q.Facets()); diff != "" {
		t.Errorf("facets mismatch (-want +got):\n%s", diff)
	}
}

func TestWith_DoesNotMutateReceiver(t *testing.T) {
	base := Empty().WithFacet("country", "DE")
	_ = base.WithFacet("country", "FR")
	_ = base.WithText("x")
	_ = base.WithSort(SortNameDsc)

	if base.Facet("country") != "DE" || base.Text() != "" || base.Sort() != SortDefault {
		t.Errorf("receiver was mutated: %+v", base)
	}
}

func TestFacets_ReturnsCopy(t *testing.T) {
	q := New("", map[string]string{"a": "1"}, SortDefault)
	f := q.Facets()
	f["a"] = "2"
	if q.Facet("a") != "1" {
		t.Error("Facets must return a copy")
	}
}

func TestActiveFacets(t *testing.T) {
	q := New("", map[string]string{"a": "1", "b": "All", "c": ""}, SortDefault)
	if diff := cmp.Diff(map[string]string{"a": "1"}, q.ActiveFacets()); diff != "" {
		t.Errorf("active facets mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a"}, q.FacetNames()); diff != "" {
		t.Errorf("facet names mismatch (-want +got):\n%s", diff)
	}
}

func TestSameFilterAndEqual(t *testing.T) {
	a := New(" Ada ", map[string]string{"country": "de", "x": "All"}, SortNameAsc)
	b := New("ada", map[string]string{"country": "DE"}, SortNameDsc)

	if !a.SameFilter(b) {
		t.Error("expected same filter after normalization")
	}
	if a.Equal(b) {
		t.Error("expected different sort to break equality")
	}
	if !a.Equal(b.WithSort(SortNameAsc)) {
		t.Error("expected equality with matching sort")
	}
	if a.SameFilter(b.WithFacet("track", "web")) {
		t.Error("expected extra facet to differ")
	}
}

func TestIsEmpty(t *testing.T) {
	if !Empty().IsEmpty() {
		t.Error("expected empty query")
	}
	if !New("  ", map[string]string{"a": "All"}, SortNameDsc).IsEmpty() {
		t.Error("expected whitespace text and unconstrained facets to be empty")
	}
	if Empty().WithText("x").IsEmpty() {
		t.Error("expected text to make the query non-empty")
	}
}

func TestValidate(t *testing.T) {
	if err := Empty().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Empty().WithText(strings.Repeat("a", MaxTextLength+1)).Validate(); err == nil {
		t.Error("expected error for long text")
	}
	q := Empty()
	for i := range MaxFacets + 1 {
		q = q.WithFacet(string(rune('a'+i)), "v")
	}
	if err := q.Validate(); err == nil {
		t.Error("expected error for too many facets")
	}
	if err := New("", map[string]string{" ": "v"}, SortDefault).Validate(); err == nil {
		t.Error("expected error for blank facet name")
	}
}

func TestFacetSort(t *testing.T) {
	name, ok := FacetSort("country").FacetName()
	if !ok || name != "country" {
		t.Errorf("expected facet country, got %q (ok=%v)", name, ok)
	}
	if _, ok := SortNameAsc.FacetName(); ok {
		t.Error("name sort is not a facet sort")
	}
	if _, ok := FacetSort("").FacetName(); ok {
		t.Error("empty facet name must not be a facet sort")
	}
}
