package httpserver

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/acne-dermatologist/internal/application/analysis"
	"github.com/bryanwahyu/acne-dermatologist/internal/application/report"
	"github.com/bryanwahyu/acne-dermatologist/internal/domain/history"
	"github.com/bryanwahyu/acne-dermatologist/internal/middleware"
)

type analyzeResponse struct {
	Record          history.Record `json:"record"`
	FullReport      string         `json:"full_report"`
	Summary         string         `json:"summary"`
	HistoryMarkdown string         `json:"history_markdown"`
	DownloadURL     string         `json:"download_url"`
}

func downloadURL(id history.RecordID) string {
	return "/reports/" + string(id)
}

// POST /v1/analyze
// Same multipart form as the page; answers with JSON.
func (r *Router) handleAnalyzeAPI(w http.ResponseWriter, req *http.Request) error {
	sess := r.session(w, req)

	f, err := r.readForm(w, req)
	defer f.Close()
	if err != nil {
		middleware.IncrementRejected()
		return err
	}

	res, err := r.runAnalysis(req.Context(), sess, f)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, analyzeResponse{
		Record:          res.Record,
		FullReport:      res.View.FullReport,
		Summary:         res.View.Summary,
		HistoryMarkdown: report.HistoryMarkdown(res.View.History),
		DownloadURL:     downloadURL(res.Record.ID),
	})
}

// GET /v1/history
func (r *Router) handleHistoryAPI(w http.ResponseWriter, req *http.Request) error {
	sess := r.session(w, req)
	return writeJSON(w, http.StatusOK, map[string]any{
		"items": analysis.History(sess).History,
	})
}

// GET /reports/{id}
func (r *Router) handleDownload(w http.ResponseWriter, req *http.Request) error {
	sess := r.session(w, req)
	id := history.RecordID(chi.URLParam(req, "id"))

	text, err := analysis.Download(sess, id)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	_, err = w.Write([]byte(text))
	return err
}
