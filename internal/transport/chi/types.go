package chi

import "time"

// ErrorCode is the machine-readable error class of an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeEventNotFound    ErrorCode = "event_not_found"
	ErrorCodeSessionNotFound  ErrorCode = "session_not_found"
	ErrorCodeAlreadyExists    ErrorCode = "already_exists"
	ErrorCodeWrongMode        ErrorCode = "wrong_mode"
	ErrorCodeTooManySessions  ErrorCode = "too_many_sessions"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// EntityRequest is the body of PUT /entities/{kind}/{id}.
type EntityRequest struct {
	Name    string            `json:"name"`
	EventID string            `json:"event_id,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Facets  map[string]string `json:"facets,omitempty"`
}

// EntityResponse is the wire form of an entity.
type EntityResponse struct {
	ID      string            `json:"id"`
	Kind    string            `json:"kind"`
	Name    string            `json:"name"`
	EventID string            `json:"event_id,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Facets  map[string]string `json:"facets,omitempty"`
}

// EntityPageResponse is one page of GET /entities/{kind}.
type EntityPageResponse struct {
	Items    []EntityResponse `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	HasMore  bool             `json:"has_more"`
}

// EventRequest is the body of PUT /events/{id}.
type EventRequest struct {
	Name     string    `json:"name"`
	StartsAt time.Time `json:"starts_at"`
}

// EventResponse is the wire form of an event.
type EventResponse struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	StartsAt time.Time `json:"starts_at"`
}

// CreateSessionRequest is the body of POST /sessions.
type CreateSessionRequest struct {
	Kind         string            `json:"kind"`
	Mode         string            `json:"mode,omitempty"`
	PageSize     int               `json:"page_size,omitempty"`
	InitialCount int               `json:"initial_count,omitempty"`
	Step         int               `json:"step,omitempty"`
	GroupByEvent bool              `json:"group_by_event,omitempty"`
	Text         string            `json:"text,omitempty"`
	Facets       map[string]string `json:"facets,omitempty"`
	Sort         string            `json:"sort,omitempty"`
}

// SessionResponse pairs a session id with its state.
type SessionResponse struct {
	ID       string           `json:"id"`
	Snapshot SnapshotResponse `json:"snapshot"`
}

// QueryResponse is the wire form of a browse query.
type QueryResponse struct {
	Text   string            `json:"text"`
	Facets map[string]string `json:"facets"`
	Sort   string            `json:"sort"`
}

// GroupResponse is one event group of a snapshot.
type GroupResponse struct {
	Key   string           `json:"key"`
	Event *EventResponse   `json:"event,omitempty"`
	Items []EntityResponse `json:"items"`
}

// SnapshotResponse is the wire form of a session snapshot.
type SnapshotResponse struct {
	Version     uint64           `json:"version"`
	Query       QueryResponse    `json:"query"`
	Mode        string           `json:"mode"`
	Items       []EntityResponse `json:"items"`
	Groups      []GroupResponse  `json:"groups,omitempty"`
	Selection   []EntityResponse `json:"selection"`
	IsLoading   bool             `json:"is_loading"`
	HasMore     bool             `json:"has_more"`
	Error       string           `json:"error,omitempty"`
	Total       int              `json:"total"`
	Page        int              `json:"page,omitempty"`
	PageSize    int              `json:"page_size,omitempty"`
	RevealCount int              `json:"reveal_count,omitempty"`
}

// TextRequest is the body of PUT /sessions/{id}/text.
type TextRequest struct {
	Text string `json:"text"`
	// Immediate applies the text without waiting for the debounce delay.
	Immediate bool `json:"immediate,omitempty"`
}

// FacetRequest is the body of PUT /sessions/{id}/facets/{name}.
type FacetRequest struct {
	Value string `json:"value"`
}

// SortRequest is the body of PUT /sessions/{id}/sort.
type SortRequest struct {
	Sort string `json:"sort"`
}

// PageRequest is the body of PUT /sessions/{id}/page.
type PageRequest struct {
	Page int `json:"page"`
}

// OrderRequest is the body of PUT /orders/{partition}.
type OrderRequest struct {
	Order []string `json:"order"`
}

// MoveRequest is the body of POST /orders/{partition}/move.
type MoveRequest struct {
	From string `json:"from"`
	Over string `json:"over"`
}

// OrderResponse is the stored order of a partition.
type OrderResponse struct {
	Partition string   `json:"partition"`
	Order     []string `json:"order"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}

// BatchEntity is one item of a batch upsert.
type BatchEntity struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	EventID string            `json:"event_id,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Facets  map[string]string `json:"facets,omitempty"`
}

// BatchUpsertRequest is the body of POST /entities/{kind}/batch.
type BatchUpsertRequest struct {
	Entities []BatchEntity `json:"entities"`
}

// BatchDeleteRequest is the body of DELETE /entities/{kind}/batch.
type BatchDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BatchResultItem is the outcome of one batch item.
type BatchResultItem struct {
	Kind   string         `json:"kind"`
	ID     string         `json:"id"`
	Status string         `json:"status"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// BatchResponse reports per-item outcomes of a batch request.
type BatchResponse struct {
	Items     []BatchResultItem `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}
