package grouping

import (
	"slices"
	"time"

	"github.com/kailas-cloud/browsekit/internal/domain/browse/filter"
	"github.com/kailas-cloud/browsekit/internal/domain/record"
)

// Group is a named partition of records.
type Group[R any] struct {
	Key     string
	Meta    any
	Members []R
}

// Options configures partitioning.
type Options[R any] struct {
	// KeyOf returns the parent key. Records with an empty key are dropped.
	KeyOf func(R) string
	// MetaOf resolves group metadata from the key and the first member.
	MetaOf func(key string, first R) any
	// GroupCompare orders groups. Nil keeps first-encountered order.
	GroupCompare func(a, b Group[R]) int
	// MemberCompare orders members. Nil sorts by display name.
	MemberCompare filter.Comparator[R]
}

// Partition groups records by key. Records without id or key are skipped.
func Partition[R any](records []R, acc record.Accessor[R], opts Options[R]) []Group[R] {
	if opts.KeyOf == nil {
		return nil
	}

	index := make(map[string]int)
	var groups []Group[R]
	for _, rec := range records {
		if acc.IDOf(rec) == "" {
			continue
		}
		key := opts.KeyOf(rec)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			g := Group[R]{Key: key}
			if opts.MetaOf != nil {
				g.Meta = opts.MetaOf(key, rec)
			}
			i = len(groups)
			index[key] = i
			groups = append(groups, g)
		}
		groups[i].Members = append(groups[i].Members, rec)
	}

	memberCmp := opts.MemberCompare
	if memberCmp == nil {
		memberCmp = filter.ByName(acc)
	}
	for i := range groups {
		slices.SortStableFunc(groups[i].Members, memberCmp)
	}

	if opts.GroupCompare != nil {
		slices.SortStableFunc(groups, opts.GroupCompare)
	}
	return groups
}

// NewestFirst orders groups by a time taken from the group, latest first.
// Groups whose time is zero sort after all dated groups.
func NewestFirst[R any](when func(Group[R]) time.Time) func(a, b Group[R]) int {
	return func(a, b Group[R]) int {
		ta, tb := when(a), when(b)
		switch {
		case ta.IsZero() && tb.IsZero():
			return 0
		case ta.IsZero():
			return 1
		case tb.IsZero():
			return -1
		}
		return tb.Compare(ta)
	}
}
