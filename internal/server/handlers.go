package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/KaramelBytes/gymdash/internal/dashboard"
	"github.com/KaramelBytes/gymdash/internal/dataset"
	"github.com/KaramelBytes/gymdash/internal/view"
)

// Error codes returned in the "error" field.
const (
	codeUnknownColumn = "unknown_column"
	codeUnknownView   = "unknown_view"
	codeColumnKind    = "column_kind"
	codeInsufficient  = "insufficient_columns"
	codeInternal      = "internal"
)

type datasetResponse struct {
	ID       string                  `json:"id"`
	Name     string                  `json:"name"`
	LoadedAt time.Time               `json:"loaded_at"`
	Rows     int                     `json:"rows"`
	Columns  []dataset.ColumnSummary `json:"columns"`
	Report   *dataset.Report         `json:"report,omitempty"`
}

type viewResponse struct {
	View   view.Kind   `json:"view"`
	Column string      `json:"column,omitempty"`
	Result view.Result `json:"result"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) datasetSummary(w http.ResponseWriter, _ *http.Request) {
	resp := datasetResponse{
		ID:       s.ds.ID(),
		Name:     s.ds.Name(),
		LoadedAt: s.ds.LoadedAt(),
		Rows:     s.ds.Rows(),
		Report:   s.report,
	}
	for _, c := range s.ds.Columns() {
		resp.Columns = append(resp.Columns, dataset.ColumnSummary{
			Name: c.Name(), Unit: c.Unit(), Kind: c.Kind(), Missing: c.MissingCount(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) catalogHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog)
}

func (s *Server) viewHandler(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	kind, err := view.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.metrics.observe("unknown", codeUnknownView, started)
		writeError(w, http.StatusNotFound, codeUnknownView, err.Error())
		return
	}
	column := r.URL.Query().Get("column")
	if column == "" && kind != view.KindHeatmap {
		column = s.defaultColumn(kind)
	}

	res, err := s.agg.Render(kind, column)
	if err != nil {
		status, code := classify(err)
		s.metrics.observe(string(kind), code, started)
		if status >= http.StatusInternalServerError {
			s.logger.Error("view failed", "view", kind, "column", column, "error", err)
		}
		writeError(w, status, code, err.Error())
		return
	}
	s.metrics.observe(string(kind), "ok", started)
	if kind == view.KindHeatmap {
		column = ""
	}
	writeJSON(w, http.StatusOK, viewResponse{View: kind, Column: column, Result: res})
}

func (s *Server) defaultColumn(kind view.Kind) string {
	for _, t := range s.catalog.Tabs {
		if t.View == kind {
			return t.Default()
		}
	}
	t, _ := dashboard.Lookup(kind)
	return t.Default()
}

func classify(err error) (int, string) {
	var (
		uc *dataset.UnknownColumnError
		uv *view.UnknownViewError
		ck *view.ColumnKindError
		ic *view.InsufficientColumnsError
	)
	switch {
	case errors.As(err, &uc):
		return http.StatusNotFound, codeUnknownColumn
	case errors.As(err, &uv):
		return http.StatusNotFound, codeUnknownView
	case errors.As(err, &ck):
		return http.StatusBadRequest, codeColumnKind
	case errors.As(err, &ic):
		return http.StatusUnprocessableEntity, codeInsufficient
	}
	return http.StatusInternalServerError, codeInternal
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
