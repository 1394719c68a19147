package chi

import (
	"net/http"

	"github.com/kailas-cloud/browsekit/internal/domain/browse/query"
	domentity "github.com/kailas-cloud/browsekit/internal/domain/entity"
	domevent "github.com/kailas-cloud/browsekit/internal/domain/event"
	cataloguc "github.com/kailas-cloud/browsekit/internal/usecase/catalog"
)

// PutEntity handles PUT /entities/{kind}/{id}.
func (s *Server) PutEntity(w http.ResponseWriter, r *http.Request) {
	p, ok := pathParams(w, r, "kind", "id")
	if !ok {
		return
	}
	var req EntityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	e, created, err := s.catalog.PutEntity(r.Context(), domentity.Kind(p[0]), p[1], cataloguc.EntityInput{
		Name:    req.Name,
		EventID: req.EventID,
		Fields:  req.Fields,
		Facets:  req.Facets,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, entityToResponse(e))
}

// GetEntity handles GET /entities/{kind}/{id}.
func (s *Server) GetEntity(w http.ResponseWriter, r *http.Request) {
	p, ok := pathParams(w, r, "kind", "id")
	if !ok {
		return
	}

	e, err := s.catalog.GetEntity(r.Context(), domentity.Kind(p[0]), p[1])
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entityToResponse(e))
}

// DeleteEntity handles DELETE /entities/{kind}/{id}.
func (s *Server) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	p, ok := pathParams(w, r, "kind", "id")
	if !ok {
		return
	}

	if err := s.catalog.DeleteEntity(r.Context(), domentity.Kind(p[0]), p[1]); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEntities handles GET /entities/{kind}: one server-mode page.
func (s *Server) ListEntities(w http.ResponseWriter, r *http.Request) {
	p, ok := pathParams(w, r, "kind")
	if !ok {
		return
	}
	params, err := bindListEntitiesParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	q := query.New(deref(params.Q), params.Facets, query.SortKey(deref(params.Sort)))
	pageNum := max(deref(params.Page), 1)
	pageSize := s.catalog.ClampPageSize(deref(params.PageSize))

	pg, err := s.catalog.ListPage(r.Context(), domentity.Kind(p[0]), q, pageNum, pageSize)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, EntityPageResponse{
		Items:    entitiesToResponse(pg.Items),
		Total:    pg.Total,
		Page:     pageNum,
		PageSize: pageSize,
		HasMore:  pageNum*pageSize < pg.Total,
	})
}

// PutEvent handles PUT /events/{id}.
func (s *Server) PutEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := pathParams(w, r, "id")
	if !ok {
		return
	}
	var req EventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	e, err := s.catalog.PutEvent(r.Context(), p[0], req.Name, req.StartsAt)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventToResponse(e))
}

// GetEvent handles GET /events/{id}.
func (s *Server) GetEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := pathParams(w, r, "id")
	if !ok {
		return
	}

	e, err := s.catalog.GetEvent(r.Context(), p[0])
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventToResponse(e))
}

func entityToResponse(e domentity.Entity) EntityResponse {
	return EntityResponse{
		ID:      e.ID(),
		Kind:    string(e.Kind()),
		Name:    e.Name(),
		EventID: e.EventID(),
		Fields:  e.Fields(),
		Facets:  e.Facets(),
	}
}

func entitiesToResponse(es []domentity.Entity) []EntityResponse {
	out := make([]EntityResponse, len(es))
	for i, e := range es {
		out[i] = entityToResponse(e)
	}
	return out
}

func eventToResponse(e domevent.Event) EventResponse {
	return EventResponse{ID: e.ID(), Name: e.Name(), StartsAt: e.StartsAt()}
}
