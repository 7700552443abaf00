package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/spektr-org/dexboard/engine"
	"github.com/spektr-org/dexboard/render"
)

// FilterPrefix marks query parameters that filter rows:
// ?filter.Legendary=True&filter.Generation=1&filter.Generation=2
const FilterPrefix = "filter."

// ============================================================================
// RESPONSES
// ============================================================================

type optionsResponse struct {
	Title     string           `json:"title"`
	Dataset   string           `json:"dataset"`
	Rows      int              `json:"rows"`
	Dropdowns engine.Dropdowns `json:"dropdowns"`
}

type errorResponse struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps bad selections to 400 and anything else to 500.
func (self *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrInvalidSelection), errors.Is(err, render.ErrUnsupported):
		status = http.StatusBadRequest
	case errors.Is(err, render.ErrNoData):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		self.logger.WithError(err).Error("request failed")
	}
	writeJSON(w, status, errorResponse{Errors: []string{err.Error()}})
}

// ============================================================================
// HANDLERS
// ============================================================================

func (self *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, optionsResponse{
		Title:     self.config.Title,
		Dataset:   self.dataset.Name,
		Rows:      self.dataset.Table.Len(),
		Dropdowns: self.dropdowns,
	})
}

func (self *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	est, err := engine.ParseEstimator(r.URL.Query().Get("estimator"))
	if err != nil {
		self.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engine.ControlsFor(est))
}

func (self *Server) handleView(w http.ResponseWriter, r *http.Request) {
	spec := SpecFromQuery(r.PathValue("view"), r.URL.Query())
	self.serveView(w, spec)
}

func (self *Server) handleViewPost(w http.ResponseWriter, r *http.Request) {
	var spec engine.ViewSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Errors: []string{"invalid view spec: " + err.Error()}})
		return
	}
	self.serveView(w, spec)
}

func (self *Server) serveView(w http.ResponseWriter, spec engine.ViewSpec) {
	labelView(w, engine.NormalizeViewSpec(spec, self.dataset).View)
	result, err := engine.Execute(spec, self.dataset, self.options...)
	if err != nil {
		self.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleChart renders /chart/{view}.png. Width and height come from the
// w and h query parameters.
func (self *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	view := strings.TrimSuffix(r.PathValue("view"), ".png")
	query := r.URL.Query()
	spec := SpecFromQuery(view, query)
	labelView(w, engine.NormalizeViewSpec(spec, self.dataset).View)

	result, err := engine.Execute(spec, self.dataset, self.options...)
	if err != nil {
		self.writeError(w, err)
		return
	}
	if result.ChartConfig == nil {
		self.writeError(w, errors.Wrapf(render.ErrUnsupported, "%s view has no chart", view))
		return
	}

	size := render.Size{Width: intParam(query, "w"), Height: intParam(query, "h")}
	var buf bytes.Buffer
	if err := render.PNG(&buf, result.ChartConfig, size); err != nil {
		self.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// ============================================================================
// QUERY PARSING
// ============================================================================

// SpecFromQuery builds a view spec from URL query parameters named after
// the ViewSpec JSON fields ("kind" is accepted for plotKind), plus
// filter.<Column> parameters.
func SpecFromQuery(view string, q url.Values) engine.ViewSpec {
	spec := engine.ViewSpec{
		View:      engine.ViewKind(view),
		PlotKind:  firstNonEmpty(q.Get("plotKind"), q.Get("kind")),
		Category:  q.Get("category"),
		Estimator: q.Get("estimator"),
		Column:    q.Get("column"),
		X:         q.Get("x"),
		Y:         q.Get("y"),
		Hue:       q.Get("hue"),
		Title:     q.Get("title"),
	}
	for key, values := range q {
		column, ok := strings.CutPrefix(key, FilterPrefix)
		if !ok || column == "" {
			continue
		}
		if spec.Filters.Columns == nil {
			spec.Filters.Columns = map[string][]string{}
		}
		spec.Filters.Columns[column] = append(spec.Filters.Columns[column], values...)
	}
	return spec
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func intParam(q url.Values, name string) int {
	n, err := strconv.Atoi(q.Get(name))
	if err != nil || n < 0 {
		return 0
	}
	// Largest canvas served.
	if n > 4096 {
		return 4096
	}
	return n
}
