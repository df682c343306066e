package suggest

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/tchap/go-patricia/v2/patricia"
)

const (
	// MinQueryLen is the minimum query length before any matching runs.
	MinQueryLen = 2
	// GroupLimit caps each result group.
	GroupLimit = 5
)

// Grouped is a ranked query result partitioned by item type.
type Grouped struct {
	Shops   []Item `json:"shops"`
	Dresses []Item `json:"dresses"`
}

func (g Grouped) Empty() bool { return len(g.Shops) == 0 && len(g.Dresses) == 0 }

// Matcher ranks queries against a fixed item list. It is immutable after
// construction; rebuilding the index means building a new Matcher.
type Matcher struct {
	items []Item
	trie  *patricia.Trie // lowercase text -> index of first item with that text
}

// source adapts the item list to the fuzzy matching library.
type source []Item

func (s source) String(i int) string { return s[i].Text }
func (s source) Len() int            { return len(s) }

func NewMatcher(items []Item) *Matcher {
	trie := patricia.NewTrie()
	for i, it := range items {
		lower := strings.ToLower(it.Text)
		if trie.Get(patricia.Prefix(lower)) == nil {
			trie.Insert(patricia.Prefix(lower), i)
		}
	}
	return &Matcher{items: items, trie: trie}
}

func (m *Matcher) Len() int { return len(m.items) }

// Items exposes the indexed items, primarily for snapshotting.
func (m *Matcher) Items() []Item { return m.items }

// Query ranks items against q and returns the per-type groups, best match
// first, each capped at GroupLimit. Queries shorter than MinQueryLen after
// trimming yield empty groups. Ties on the library score are broken in favor
// of items whose text equals the query case-insensitively.
func (m *Matcher) Query(q string) Grouped {
	q = strings.TrimSpace(q)
	if len(q) < MinQueryLen {
		return Grouped{}
	}

	matches := fuzzy.FindFrom(q, source(m.items))

	lower := strings.ToLower(q)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		ei := strings.ToLower(m.items[matches[i].Index].Text) == lower
		ej := strings.ToLower(m.items[matches[j].Index].Text) == lower
		return ei && !ej
	})

	var g Grouped
	for _, mt := range matches {
		it := m.items[mt.Index]
		switch it.Type {
		case TypeShop:
			if len(g.Shops) < GroupLimit {
				g.Shops = append(g.Shops, it)
			}
		case TypeDress:
			if len(g.Dresses) < GroupLimit {
				g.Dresses = append(g.Dresses, it)
			}
		}
		if len(g.Shops) == GroupLimit && len(g.Dresses) == GroupLimit {
			break
		}
	}
	return g
}

// Complete returns items whose text starts with the given prefix, in trie
// order, capped at limit. Used by the inventory CLI for quick lookups.
func (m *Matcher) Complete(prefix string, limit int) []Item {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" || limit <= 0 {
		return nil
	}
	var out []Item
	_ = m.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		if idx, ok := item.(int); ok {
			out = append(out, m.items[idx])
		}
		if len(out) >= limit {
			return errStop
		}
		return nil
	})
	return out
}

// errStop aborts a trie visit early; VisitSubtree surfaces it, callers ignore it.
var errStop = stopError{}

type stopError struct{}

func (stopError) Error() string { return "stop" }
