package chi

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/browsekit/internal/domain"
	dombatch "github.com/kailas-cloud/browsekit/internal/domain/batch"
	domentity "github.com/kailas-cloud/browsekit/internal/domain/entity"
	batchuc "github.com/kailas-cloud/browsekit/internal/usecase/batch"
)

// BatchUpsert handles POST /entities/{kind}/batch.
func (s *Server) BatchUpsert(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathParams(w, r, "kind")
	if !ok {
		return
	}
	var req BatchUpsertRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if len(req.Entities) == 0 || len(req.Entities) > batchuc.MaxBatchSize {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("entities count must be between 1 and %d", batchuc.MaxBatchSize))
		return
	}

	items := make([]batchuc.Item, len(req.Entities))
	for i, e := range req.Entities {
		items[i] = batchuc.Item{
			ID:      e.ID,
			Name:    e.Name,
			EventID: e.EventID,
			Fields:  e.Fields,
			Facets:  e.Facets,
		}
	}

	writeJSON(w, http.StatusOK, s.batchResponse(s.batch.Upsert(r.Context(), domentity.Kind(kind[0]), items)))
}

// BatchDelete handles DELETE /entities/{kind}/batch.
func (s *Server) BatchDelete(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathParams(w, r, "kind")
	if !ok {
		return
	}
	var req BatchDeleteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if len(req.IDs) == 0 || len(req.IDs) > batchuc.MaxBatchSize {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("ids count must be between 1 and %d", batchuc.MaxBatchSize))
		return
	}

	writeJSON(w, http.StatusOK, s.batchResponse(s.batch.Delete(r.Context(), domentity.Kind(kind[0]), req.IDs)))
}

func (s *Server) batchResponse(results []dombatch.Result) BatchResponse {
	resp := BatchResponse{Items: make([]BatchResultItem, len(results))}
	for i, res := range results {
		resp.Items[i] = batchResultToResponse(res)
		if item := resp.Items[i]; item.Error != nil && item.Error.Code == ErrorCodeInternalError {
			s.logger.Error("batch item failed", zap.String("entity", res.Ref()), zap.Error(res.Err()))
		}
	}
	resp.Failed = dombatch.Failed(results)
	resp.Succeeded = len(results) - resp.Failed
	return resp
}

func batchResultToResponse(r dombatch.Result) BatchResultItem {
	item := BatchResultItem{
		Kind:   string(r.Kind()),
		ID:     r.ID(),
		Status: string(r.Status()),
	}
	if r.Err() != nil {
		item.Error = &ErrorResponse{
			Code:    batchErrorCode(r.Err()),
			Message: batchErrorMessage(r.Err()),
		}
	}
	return item
}

func batchErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return ErrorCodeValidationFailed
	case errors.Is(err, domain.ErrEventNotFound):
		return ErrorCodeEventNotFound
	case errors.Is(err, domain.ErrNotFound):
		return ErrorCodeNotFound
	default:
		return ErrorCodeInternalError
	}
}

// batchErrorMessage keeps validation detail and hides everything else.
func batchErrorMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}
	return safeDomainMessage(err)
}
