package httpserver

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bryanwahyu/acne-dermatologist/internal/application/analysis"
	"github.com/bryanwahyu/acne-dermatologist/internal/application/report"
	"github.com/bryanwahyu/acne-dermatologist/internal/domain/history"
	"github.com/bryanwahyu/acne-dermatologist/internal/domain/session"
	"github.com/bryanwahyu/acne-dermatologist/internal/domain/skin"
	"github.com/bryanwahyu/acne-dermatologist/internal/middleware"
)

// Text shown on the page.
const (
	pageTitle   = "💡 Acne / Pimple AI Dermatologist"
	pageCaption = "Not a replacement for an in-person consultation 🩺"
	msgSuccess  = "✅ Analysis Complete!"
	msgNoInput  = "Please upload an image first."
	errorPrefix = "❌ Error: "

	msgDecodeFailed = "Could not read the uploaded image. Please try another JPG or PNG photo."
)

//go:embed templates/*.html
var templateFS embed.FS

type banner struct {
	Level string
	Text  string
}

// pageData feeds templates/index.html.
type pageData struct {
	Title      string
	Caption    string
	ModelLabel string
	SkinTypes  []skin.SkinType

	Age      string
	SkinType string

	Banner *banner
	// Result is set only right after a successful analysis.
	Result      *report.View
	RecordID    history.RecordID
	History     []history.Record
	EmptyNotice string
}

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() *pageRenderer {
	return &pageRenderer{
		tmpl: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

func (p *pageRenderer) render(w http.ResponseWriter, status int, data *pageData) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		log.Error().Err(err).Msg("render page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

type pageHandlerFunc func(http.ResponseWriter, *http.Request, *pageData) error

// wrapPage is the HTML side of the error funnel: failures become a banner on
// the same page instead of an error document.
func (r *Router) wrapPage(h pageHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		sess := r.session(w, req)
		data := &pageData{
			Title:       pageTitle,
			Caption:     pageCaption,
			ModelLabel:  r.modelLabel,
			SkinTypes:   skin.SkinTypes,
			EmptyNotice: report.EmptyHistory,
		}
		req = req.WithContext(withSession(req.Context(), sess))

		status := http.StatusOK
		if err := h(w, req, data); err != nil {
			he := classify(err)
			logFailure(req, err, he)
			status = he.Status
			text := he.Message
			if he.Level == levelError {
				text = errorPrefix + text
			}
			data.Banner = &banner{Level: he.Level, Text: text}
			data.Result = nil
		}
		// history always reflects the session after the request
		data.History = sess.History.List()
		r.page.render(w, status, data)
	}
}

// GET /
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request, data *pageData) error {
	return nil
}

// POST /analyze
// Multipart form: image, age, skin_type.
func (r *Router) handleAnalyzePage(w http.ResponseWriter, req *http.Request, data *pageData) error {
	sess := sessionFrom(req.Context())

	f, err := r.readForm(w, req)
	defer f.Close()
	data.Age = f.Age
	data.SkinType = f.SkinTypeRaw
	if err != nil {
		middleware.IncrementRejected()
		return err
	}

	res, err := r.runAnalysis(req.Context(), sess, f)
	if err != nil {
		return err
	}

	data.Banner = &banner{Level: levelSuccess, Text: msgSuccess}
	data.Result = &res.View
	data.RecordID = res.Record.ID
	log.Debug().Str("session", sess.ID).Str("record", string(res.Record.ID)).Msg("analysis rendered")
	return nil
}

// runAnalysis validates the profile and runs the workflow for one session,
// keeping the analysis counters current.
func (r *Router) runAnalysis(ctx context.Context, sess *session.Session, f *form) (*analysis.Result, error) {
	profile, err := f.profile()
	if err != nil {
		middleware.IncrementRejected()
		return nil, err
	}

	done := middleware.AnalysisStarted()
	res, err := r.analysis.Analyze(ctx, sess, analysis.Request{
		Upload:  f.Upload,
		Profile: profile,
	})
	done(err, err != nil && classify(err).rejected())
	return res, err
}
