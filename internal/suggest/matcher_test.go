package suggest_test

import (
	"strings"
	"testing"

	"dressmarket/internal/suggest"
)

func testMatcher(t *testing.T) *suggest.Matcher {
	t.Helper()
	return suggest.NewMatcher(suggest.BuildIndex(sampleShops(), sampleDresses()))
}

func TestQueryTooShort(t *testing.T) {
	m := testMatcher(t)
	for _, q := range []string{"", "a", " z ", "  "} {
		if g := m.Query(q); !g.Empty() {
			t.Fatalf("query %q should return no suggestions", q)
		}
	}
}

func TestQueryGroupsByType(t *testing.T) {
	m := testMatcher(t)
	g := m.Query("bangalore")
	if len(g.Shops) == 0 {
		t.Fatal("expected shop suggestions for a location query")
	}
	for _, it := range g.Shops {
		if it.Type != suggest.TypeShop {
			t.Fatalf("shop group contains %+v", it)
		}
	}

	g = m.Query("saree")
	if len(g.Dresses) == 0 {
		t.Fatal("expected dress suggestions for 'saree'")
	}
	for _, it := range g.Dresses {
		if it.Type != suggest.TypeDress {
			t.Fatalf("dress group contains %+v", it)
		}
	}
}

func TestQueryCaseInsensitive(t *testing.T) {
	m := testMatcher(t)
	lower := m.Query("elegant")
	upper := m.Query("ELEGANT")
	if len(lower.Dresses) == 0 || len(lower.Dresses) != len(upper.Dresses) {
		t.Fatalf("case should not affect results: %d vs %d", len(lower.Dresses), len(upper.Dresses))
	}
}

func TestQueryNoFalsePositives(t *testing.T) {
	m := testMatcher(t)
	g := m.Query("red")
	for _, it := range append(g.Shops, g.Dresses...) {
		lowText := strings.ToLower(it.Text)
		// Every character of the query must appear in order in the match.
		idx := 0
		for _, r := range "red" {
			next := strings.IndexRune(lowText[idx:], r)
			if next < 0 {
				t.Fatalf("%q does not contain the query subsequence", it.Text)
			}
			idx += next + 1
		}
	}
}

func TestQueryExactMatchRanksFirst(t *testing.T) {
	items := []suggest.Item{
		{ID: "1", Text: "Zarathustra Gowns", Type: suggest.TypeDress, Category: "Brand"},
		{ID: "2", Text: "Zara", Type: suggest.TypeDress, Category: "Brand"},
	}
	m := suggest.NewMatcher(items)
	g := m.Query("zara")
	if len(g.Dresses) == 0 || g.Dresses[0].Text != "Zara" {
		t.Fatalf("exact text should rank first, got %+v", g.Dresses)
	}
}

func TestQueryGroupLimit(t *testing.T) {
	var items []suggest.Item
	for _, n := range []string{
		"Gown One", "Gown Two", "Gown Three", "Gown Four",
		"Gown Five", "Gown Six", "Gown Seven",
	} {
		items = append(items, suggest.Item{ID: n, Text: n, Type: suggest.TypeDress, Category: "Dress"})
	}
	m := suggest.NewMatcher(items)
	g := m.Query("gown")
	if len(g.Dresses) != suggest.GroupLimit {
		t.Fatalf("group should cap at %d, got %d", suggest.GroupLimit, len(g.Dresses))
	}
}

func TestComplete(t *testing.T) {
	m := testMatcher(t)
	out := m.Complete("ros", 10)
	if len(out) == 0 {
		t.Fatal("expected completions for 'ros'")
	}
	for _, it := range out {
		if !strings.HasPrefix(strings.ToLower(it.Text), "ros") {
			t.Fatalf("%q is not a prefix completion", it.Text)
		}
	}

	if got := m.Complete("ros", 1); len(got) != 1 {
		t.Fatalf("limit not honored: %d", len(got))
	}
	if got := m.Complete("", 5); got != nil {
		t.Fatalf("empty prefix should complete to nothing, got %v", got)
	}
}
