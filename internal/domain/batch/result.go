// Package batch holds per-item outcomes of bulk entity writes.
package batch

import "github.com/kailas-cloud/browsekit/internal/domain/entity"

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome for one entity in a bulk upsert or delete.
// Kind and ID together address the entity in the catalog.
type Result struct {
	kind   entity.Kind
	id     string
	status ItemStatus
	err    error
}

// NewOK records that the entity was written.
func NewOK(kind entity.Kind, id string) Result {
	return Result{kind: kind, id: id, status: StatusOK}
}

// NewError records that the entity was left untouched because of err.
func NewError(kind entity.Kind, id string, err error) Result {
	return Result{kind: kind, id: id, status: StatusError, err: err}
}

func (r Result) Kind() entity.Kind  { return r.kind }
func (r Result) ID() string         { return r.id }
func (r Result) Status() ItemStatus { return r.status }
func (r Result) Err() error         { return r.err }

// Ref is the entity path "kind/id", as used in catalog URLs.
func (r Result) Ref() string { return string(r.kind) + "/" + r.id }

// Failed counts results that did not succeed.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.status != StatusOK {
			n++
		}
	}
	return n
}
