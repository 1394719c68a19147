package chi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/browsekit/internal/domain/browse/query"
	domentity "github.com/kailas-cloud/browsekit/internal/domain/entity"
	domevent "github.com/kailas-cloud/browsekit/internal/domain/event"
	logpkg "github.com/kailas-cloud/browsekit/internal/logger"
	"github.com/kailas-cloud/browsekit/internal/usecase/browse"
	cataloguc "github.com/kailas-cloud/browsekit/internal/usecase/catalog"
	"github.com/kailas-cloud/browsekit/internal/usecase/pagination"
)

type entitySession = browse.Session[domentity.Entity]

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess, err := s.catalog.OpenSession(r.Context(), cataloguc.SessionSpec{
		Kind:         domentity.Kind(req.Kind),
		Mode:         pagination.Mode(req.Mode),
		InitialCount: req.InitialCount,
		Step:         req.Step,
		PageSize:     req.PageSize,
		GroupByEvent: req.GroupByEvent,
		Query:        query.New(req.Text, req.Facets, query.SortKey(req.Sort)),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	id, err := s.sessions.Add(sess, req.Kind)
	if err != nil {
		sess.Close()
		s.handleDomainError(w, err)
		return
	}

	logpkg.FromContext(r.Context()).Info("session created",
		zap.String("session_id", id),
		zap.String("kind", req.Kind),
		zap.String("mode", string(sess.Mode())),
	)
	writeJSON(w, http.StatusCreated, SessionResponse{ID: id, Snapshot: snapshotToResponse(sess.Snapshot())})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	params, err := bindGetSessionParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	if deref(params.Wait) {
		ctx := logpkg.With(r.Context(), zap.String("session_id", id))
		if err := sess.Wait(ctx); err != nil {
			logpkg.FromContext(ctx).Debug("session wait interrupted", zap.Error(err))
		}
	}
	s.writeSnapshot(w, id, sess)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	p, ok := pathParams(w, r, "id")
	if !ok {
		return
	}
	if err := s.sessions.Delete(p[0]); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetSessionText handles PUT /sessions/{id}/text.
func (s *Server) SetSessionText(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req TextRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := sess.SetText(req.Text); err != nil {
		s.handleDomainError(w, err)
		return
	}
	if req.Immediate {
		sess.FlushText()
	}
	s.writeSnapshot(w, id, sess)
}

// SetSessionFacet handles PUT /sessions/{id}/facets/{name}.
func (s *Server) SetSessionFacet(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	p, ok := pathParams(w, r, "name")
	if !ok {
		return
	}
	var req FacetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := sess.SetFacet(p[0], req.Value); err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.writeSnapshot(w, id, sess)
}

// SetSessionSort handles PUT /sessions/{id}/sort.
func (s *Server) SetSessionSort(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req SortRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess.SetSort(query.SortKey(req.Sort))
	s.writeSnapshot(w, id, sess)
}

// RevealMore handles POST /sessions/{id}/more.
func (s *Server) RevealMore(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.RevealMore()
	s.writeSnapshot(w, id, sess)
}

// SetSessionPage handles PUT /sessions/{id}/page.
func (s *Server) SetSessionPage(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req PageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := sess.SetPage(req.Page); err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.writeSnapshot(w, id, sess)
}

// ToggleSelection handles POST /sessions/{id}/selection/{rid}.
func (s *Server) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	p, ok := pathParams(w, r, "rid")
	if !ok {
		return
	}
	sess.ToggleSelect(p[0])
	s.writeSnapshot(w, id, sess)
}

// Deselect handles DELETE /sessions/{id}/selection/{rid}.
func (s *Server) Deselect(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	p, ok := pathParams(w, r, "rid")
	if !ok {
		return
	}
	sess.Deselect(p[0])
	s.writeSnapshot(w, id, sess)
}

// ClearSelection handles DELETE /sessions/{id}/selection.
func (s *Server) ClearSelection(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.ClearSelection()
	s.writeSnapshot(w, id, sess)
}

// ResetSession handles POST /sessions/{id}/reset.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Reset()
	s.writeSnapshot(w, id, sess)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, *entitySession, bool) {
	p, ok := pathParams(w, r, "id")
	if !ok {
		return "", nil, false
	}
	sess, err := s.sessions.Get(p[0])
	if err != nil {
		s.handleDomainError(w, err)
		return "", nil, false
	}
	return p[0], sess, true
}

func (s *Server) writeSnapshot(w http.ResponseWriter, id string, sess *entitySession) {
	writeJSON(w, http.StatusOK, SessionResponse{ID: id, Snapshot: snapshotToResponse(sess.Snapshot())})
}

func snapshotToResponse(snap browse.Snapshot[domentity.Entity]) SnapshotResponse {
	resp := SnapshotResponse{
		Version: snap.Version,
		Query: QueryResponse{
			Text:   snap.Query.Text(),
			Facets: snap.Query.ActiveFacets(),
			Sort:   string(snap.Query.Sort()),
		},
		Mode:        string(snap.Mode),
		Items:       entitiesToResponse(snap.VisibleItems),
		Selection:   entitiesToResponse(snap.Selection),
		IsLoading:   snap.IsLoading,
		HasMore:     snap.HasMore,
		Error:       snap.ErrorText,
		Total:       snap.Total,
		Page:        snap.Page,
		PageSize:    snap.PageSize,
		RevealCount: snap.RevealCount,
	}
	for _, g := range snap.Groups {
		gr := GroupResponse{Key: g.Key, Items: entitiesToResponse(g.Members)}
		if ev, ok := g.Meta.(domevent.Event); ok {
			er := eventToResponse(ev)
			gr.Event = &er
		}
		resp.Groups = append(resp.Groups, gr)
	}
	return resp
}
