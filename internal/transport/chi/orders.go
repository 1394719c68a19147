package chi

import (
	"net/http"

	domreorder "github.com/kailas-cloud/browsekit/internal/domain/reorder"
)

// GetOrder handles GET /orders/{partition}.
func (s *Server) GetOrder(w http.ResponseWriter, r *http.Request) {
	p, ok := pathParams(w, r, "partition")
	if !ok {
		return
	}

	order, err := s.orders.Order(r.Context(), domreorder.Partition(p[0]))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OrderResponse{Partition: p[0], Order: order})
}

// CommitOrder handles PUT /orders/{partition}: the order at drag end.
func (s *Server) CommitOrder(w http.ResponseWriter, r *http.Request) {
	p, ok := pathParams(w, r, "partition")
	if !ok {
		return
	}
	var req OrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	assignments, err := s.orders.Commit(r.Context(), domreorder.Partition(p[0]), req.Order)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OrderResponse{Partition: p[0], Order: domreorder.Order(assignments)})
}

// MoveOrder handles POST /orders/{partition}/move.
func (s *Server) MoveOrder(w http.ResponseWriter, r *http.Request) {
	p, ok := pathParams(w, r, "partition")
	if !ok {
		return
	}
	var req MoveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := s.orders.Move(r.Context(), domreorder.Partition(p[0]), req.From, req.Over)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OrderResponse{Partition: p[0], Order: order})
}
