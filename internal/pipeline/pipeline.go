package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/kevinmichaelchen/gepeto/internal/llm"
	"github.com/kevinmichaelchen/gepeto/internal/models"
	"github.com/kevinmichaelchen/gepeto/internal/normalize"
	"github.com/kevinmichaelchen/gepeto/internal/prompt"
	"github.com/kevinmichaelchen/gepeto/internal/scan"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Generator returns the raw model reply for an assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*llm.Reply, error)
}

// Recorder stores finished analyses.
type Recorder interface {
	SaveAnalysis(ctx context.Context, rec models.AnalysisRecord) error
}

type Options struct {
	Template prompt.Template
	Scan     scan.Options
	// Recorder is optional. Failures to record are logged and ignored.
	Recorder Recorder
}

type Analyzer struct {
	client Generator
	opts   Options
	log    zerolog.Logger
}

func New(client Generator, opts Options, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		client: client,
		opts:   opts,
		log:    log.With().Str("component", "pipeline").Logger(),
	}
}

// Analyze runs scan, assemble, generate and normalize for one repository.
// Only repository and provider failures are returned; a reply that is not
// JSON still yields a Result.
func (a *Analyzer) Analyze(ctx context.Context, repoPath string) (*models.Result, error) {
	doc, err := scan.Document(repoPath, a.opts.Scan)
	if err != nil {
		return nil, err
	}
	a.log.Debug().Str("repo", repoPath).Int("bytes", len(doc)).Msg("scanned repository")

	reply, err := a.client.Generate(ctx, a.opts.Template.Assemble(doc))
	if err != nil {
		return nil, fmt.Errorf("generating descriptor for %s: %w", repoPath, err)
	}
	a.log.Info().
		Str("repo", repoPath).
		Stringer("provider", reply.Provider).
		Bool("fell_back", reply.FellBack).
		Msg("model replied")

	res, err := normalize.Normalize(reply.Text)
	if err != nil {
		a.log.Warn().Err(err).Str("repo", repoPath).Msg("using default fields")
	}

	a.record(ctx, repoPath, reply, res)
	return &res, nil
}

func (a *Analyzer) record(ctx context.Context, repoPath string, reply *llm.Reply, res models.Result) {
	if a.opts.Recorder == nil {
		return
	}
	rec := models.AnalysisRecord{
		ID:            uuid.NewString(),
		RepoPath:      repoPath,
		Provider:      reply.Provider.String(),
		FellBack:      reply.FellBack,
		InstallScript: res.InstallScript,
		StartScript:   res.StartScript,
		Description:   res.Description,
		Requirements:  res.Requirements,
		TerminalRegex: res.TerminalRegex,
		PinokioScript: res.PinokioScript,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := a.opts.Recorder.SaveAnalysis(ctx, rec); err != nil {
		a.log.Warn().Err(err).Str("repo", repoPath).Msg("could not record analysis")
	}
}

// Run analyzes repoPath and writes exactly one JSON line to w. Any failure,
// including a panic, is logged and emitted as {}. The returned error is
// only ever a write error.
func (a *Analyzer) Run(ctx context.Context, w io.Writer, repoPath string) error {
	return Emit(w, a.analyzeOrNil(ctx, repoPath))
}

func (a *Analyzer) analyzeOrNil(ctx context.Context, repoPath string) *models.Result {
	res, err := a.safeAnalyze(ctx, repoPath)
	if err != nil {
		a.log.Error().Err(err).Str("repo", repoPath).Msg("analysis failed")
		return nil
	}
	return res
}

func (a *Analyzer) safeAnalyze(ctx context.Context, repoPath string) (res *models.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return a.Analyze(ctx, repoPath)
}

// Batch analyzes repos with at most limit in flight and writes one
// BatchEntry line per repository, in argument order.
func (a *Analyzer) Batch(ctx context.Context, w io.Writer, repos []string, limit int) error {
	if limit <= 0 {
		limit = 1
	}
	results := make([]*models.Result, len(repos))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, repo := range repos {
		g.Go(func() error {
			results[i] = a.analyzeOrNil(gCtx, repo)
			return nil // one repo never aborts the batch
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, repo := range repos {
		raw, err := Encode(results[i])
		if err != nil {
			return err
		}
		line, err := encodeLine(models.BatchEntry{Repo: repo, Result: raw})
		if err != nil {
			return err
		}
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("writing result for %s: %w", repo, err)
		}
	}
	return nil
}

// Emit writes res as one JSON line. A nil res is written as {}.
func Emit(w io.Writer, res *models.Result) error {
	line, err := Encode(res)
	if err != nil {
		line = []byte("{}")
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}

// Encode renders res without HTML escaping and without a trailing newline.
func Encode(res *models.Result) ([]byte, error) {
	if res == nil {
		return []byte("{}"), nil
	}
	line, err := encodeLine(res)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(line, "\n"), nil
}

func encodeLine(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return buf.Bytes(), nil
}
