package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/bryanwahyu/acne-dermatologist/internal/application/analysis"
	domai "github.com/bryanwahyu/acne-dermatologist/internal/domain/ai"
	"github.com/bryanwahyu/acne-dermatologist/internal/domain/session"
	"github.com/bryanwahyu/acne-dermatologist/internal/domain/skin"
	infrasession "github.com/bryanwahyu/acne-dermatologist/internal/infra/session"
	"github.com/bryanwahyu/acne-dermatologist/internal/middleware"
)

const (
	defaultCookieName = "acne_session"
	defaultModelLabel = "Gemini"
	// room for the age/skin_type fields and multipart framing around the photo
	formOverhead = 64 * 1024
)

// Deps is everything the router needs. Limiter and Checks are optional.
type Deps struct {
	Analysis       *analysis.Service
	Sessions       *infrasession.Manager
	Limiter        *middleware.RateLimiter
	Checks         map[string]middleware.HealthChecker
	CookieName     string
	CookieSecure   bool
	AllowedOrigins []string
	MaxUploadBytes int64
	// ModelLabel is shown in the busy indicator.
	ModelLabel string
}

type Router struct {
	analysis     *analysis.Service
	sessions     *infrasession.Manager
	cookieName   string
	cookieSecure bool
	maxBody      int64
	modelLabel   string
	page         *pageRenderer
}

func NewRouter(d Deps) http.Handler {
	r := &Router{
		analysis:     d.Analysis,
		sessions:     d.Sessions,
		cookieName:   d.CookieName,
		cookieSecure: d.CookieSecure,
		modelLabel:   d.ModelLabel,
		page:         newPageRenderer(),
	}
	if r.cookieName == "" {
		r.cookieName = defaultCookieName
	}
	if r.modelLabel == "" {
		r.modelLabel = defaultModelLabel
	}
	if d.MaxUploadBytes > 0 {
		r.maxBody = d.MaxUploadBytes + formOverhead
	}

	pageLimit := func(next http.Handler) http.Handler { return next }
	apiLimit := pageLimit
	if d.Limiter != nil {
		pageLimit = middleware.RateLimit(d.Limiter, middleware.ClientIP, r.denyPage)
		apiLimit = middleware.RateLimit(d.Limiter, middleware.ClientIP, r.denyAPI)
	}

	mux := chi.NewRouter()
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/healthz", middleware.HealthHandler(d.Checks))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Get("/", r.wrapPage(r.handleIndex))
	mux.With(pageLimit).Post("/analyze", r.wrapPage(r.handleAnalyzePage))
	mux.Get("/reports/{id}", r.wrap(r.handleDownload))

	mux.Route("/v1", func(rt chi.Router) {
		rt.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		rt.With(apiLimit).Post("/analyze", r.wrap(r.handleAnalyzeAPI))
		rt.Get("/history", r.wrap(r.handleHistoryAPI))
	})

	return mux
}

// session resolves the caller's session, issuing a new cookie when the old
// one is missing or expired.
func (r *Router) session(w http.ResponseWriter, req *http.Request) *session.Session {
	var id string
	if c, err := req.Cookie(r.cookieName); err == nil {
		id = c.Value
	}
	sess, created := r.sessions.Get(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     r.cookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   r.cookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

// Banner levels.
const (
	levelSuccess = "success"
	levelWarning = "warning"
	levelError   = "error"
)

// httpError is what the funnel decided to tell the client.
type httpError struct {
	Status  int
	Level   string
	Message string
}

// classify maps workflow errors onto a status and a user-facing message.
func classify(err error) httpError {
	var (
		decodeErr   *skin.DecodeError
		analysisErr *domai.AnalysisError
	)
	switch {
	case errors.Is(err, skin.ErrNoInput):
		return httpError{http.StatusBadRequest, levelWarning, msgNoInput}
	case errors.Is(err, skin.ErrUnsupportedUpload), errors.Is(err, skin.ErrInvalidSkinType):
		return httpError{http.StatusBadRequest, levelWarning, err.Error()}
	case errors.Is(err, session.ErrBusy):
		return httpError{http.StatusConflict, levelWarning, err.Error()}
	case errors.Is(err, middleware.ErrRateLimited):
		return httpError{http.StatusTooManyRequests, levelWarning, err.Error()}
	case errors.Is(err, analysis.ErrReportNotFound):
		return httpError{http.StatusNotFound, levelWarning, err.Error()}
	case errors.As(err, &decodeErr):
		return httpError{http.StatusUnprocessableEntity, levelError, msgDecodeFailed}
	case errors.Is(err, domai.ErrQuotaExceeded):
		return httpError{http.StatusTooManyRequests, levelError, err.Error()}
	case errors.As(err, &analysisErr):
		return httpError{http.StatusBadGateway, levelError, analysisErr.Message}
	default:
		return httpError{http.StatusInternalServerError, levelError, "internal error"}
	}
}

// rejected reports whether the request never got as far as the model.
func (e httpError) rejected() bool {
	return e.Level == levelWarning
}

// logFailure keeps the detail the user-facing message leaves out.
func logFailure(req *http.Request, err error, he httpError) {
	var decodeErr *skin.DecodeError
	switch {
	case he.Status >= http.StatusInternalServerError:
		log.Error().Err(err).Str("path", req.URL.Path).Msg("request failed")
	case errors.As(err, &decodeErr):
		log.Warn().Err(err).Str("path", req.URL.Path).Msg("upload could not be decoded")
	}
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			he := classify(err)
			logFailure(req, err, he)
			writeJSON(w, he.Status, map[string]string{
				"error": he.Message,
				"level": he.Level,
			})
		}
	}
}

// denyPage and denyAPI answer rate-limited requests through the funnels.
func (r *Router) denyPage(w http.ResponseWriter, req *http.Request, err error) {
	middleware.IncrementRejected()
	r.wrapPage(func(http.ResponseWriter, *http.Request, *pageData) error { return err })(w, req)
}

func (r *Router) denyAPI(w http.ResponseWriter, req *http.Request, err error) {
	middleware.IncrementRejected()
	r.wrap(func(http.ResponseWriter, *http.Request) error { return err })(w, req)
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
