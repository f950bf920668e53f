package analysis

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bryanwahyu/acne-dermatologist/internal/application"
	"github.com/bryanwahyu/acne-dermatologist/internal/application/report"
	"github.com/bryanwahyu/acne-dermatologist/internal/domain/ai"
	"github.com/bryanwahyu/acne-dermatologist/internal/domain/history"
	"github.com/bryanwahyu/acne-dermatologist/internal/domain/session"
	"github.com/bryanwahyu/acne-dermatologist/internal/domain/skin"
)

// Analyzer is the model-facing side of the workflow; *appai.Service satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, image ai.Image, prompt string) (string, error)
}

// PromptFunc renders the model instructions for a profile. Blank fields are
// the builder's concern.
type PromptFunc func(age, skinType string) string

// Service implements the analyze use case.
// Archive is optional; nil disables report archiving.
type Service struct {
	Normalizer skin.Normalizer
	AI         Analyzer
	Prompt     PromptFunc
	Archive    history.Archive
	Clock      application.Clock
}

// Request is one press of the Analyze button.
type Request struct {
	Upload  *skin.Upload
	Profile skin.Profile
}

// Result is what the presenter needs after a successful run.
type Result struct {
	Record history.Record
	View   report.View
}

// Analyze takes one upload through the normalizer, prompt and model, then
// records it for sess. On any error the session history is left untouched.
func (s *Service) Analyze(ctx context.Context, sess *session.Session, req Request) (*Result, error) {
	if !sess.TryBegin() {
		return nil, session.ErrBusy
	}
	defer sess.End()

	if req.Upload.Empty() {
		return nil, skin.ErrNoInput
	}
	if err := req.Upload.CheckExtension(); err != nil {
		return nil, err
	}

	img, err := s.Normalizer.Normalize(req.Upload.Reader)
	if err != nil {
		return nil, err
	}

	text, err := s.AI.Analyze(ctx, img, s.Prompt(req.Profile.Age, string(req.Profile.SkinType)))
	if err != nil {
		return nil, err
	}

	rec := history.Record{
		ID:        history.NewRecordID(),
		Timestamp: s.Clock.Now(),
		Age:       req.Profile.Age,
		SkinType:  req.Profile.SkinType,
		Response:  text,
	}
	if s.Archive != nil {
		url, aerr := s.Archive.ArchiveReport(ctx, sess.ID, rec)
		if aerr != nil {
			log.Warn().Err(aerr).Str("session", sess.ID).Str("record", string(rec.ID)).Msg("report archive failed")
		} else {
			rec.ArchiveURL = url
		}
	}
	sess.History.Append(rec)

	return &Result{
		Record: rec,
		View:   report.Build(text, sess.History.List()),
	}, nil
}

// History returns the presenter view for a session without running an analysis.
func History(sess *session.Session) report.View {
	return report.Build("", sess.History.List())
}

// Download looks up the raw report text for a record in this session.
func Download(sess *session.Session, id history.RecordID) (string, error) {
	rec, ok := sess.History.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	return rec.Response, nil
}
