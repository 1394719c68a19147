package chi

import (
	"fmt"
	"net/http"
	"strings"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

const facetParamPrefix = "facet."

// ListEntitiesParams defines parameters for GET /entities/{kind}.
type ListEntitiesParams struct {
	Q        *string
	Sort     *string
	Page     *int
	PageSize *int
	// Facets holds facet.<name>=<value> pairs.
	Facets map[string]string
}

// GetSessionParams defines parameters for GET /sessions/{id}.
type GetSessionParams struct {
	// Wait blocks until no page fetch is outstanding.
	Wait *bool
}

func pathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, gochi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return v, nil
}

// pathParams binds each named path parameter in order, writing a 400 on failure.
func pathParams(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	out := make([]string, len(names))
	for i, n := range names {
		v, err := pathParam(r, n)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func bindListEntitiesParams(r *http.Request) (ListEntitiesParams, error) {
	var p ListEntitiesParams
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "q", q, &p.Q); err != nil {
		return p, fmt.Errorf("invalid format for parameter q: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "sort", q, &p.Sort); err != nil {
		return p, fmt.Errorf("invalid format for parameter sort: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &p.Page); err != nil {
		return p, fmt.Errorf("invalid format for parameter page: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "page_size", q, &p.PageSize); err != nil {
		return p, fmt.Errorf("invalid format for parameter page_size: %w", err)
	}

	for key, values := range q {
		name, ok := strings.CutPrefix(key, facetParamPrefix)
		if !ok || name == "" || len(values) == 0 {
			continue
		}
		if p.Facets == nil {
			p.Facets = make(map[string]string)
		}
		p.Facets[name] = values[0]
	}
	return p, nil
}

func bindGetSessionParams(r *http.Request) (GetSessionParams, error) {
	var p GetSessionParams
	if err := runtime.BindQueryParameter("form", true, false, "wait", r.URL.Query(), &p.Wait); err != nil {
		return p, fmt.Errorf("invalid format for parameter wait: %w", err)
	}
	return p, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
