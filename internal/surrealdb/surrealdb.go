package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/kevinmichaelchen/gepeto/internal/config"
	"github.com/kevinmichaelchen/gepeto/internal/models"
	sdk "github.com/surrealdb/surrealdb.go"
)

// Client stores analysis history.
type Client struct {
	db *sdk.DB
}

func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	db, err := sdk.FromEndpointURLString(ctx, cfg.SurrealURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, sdk.Auth{
		Namespace: cfg.SurrealNS,
		Database:  cfg.SurrealDB,
		Username:  cfg.SurrealUser,
		Password:  cfg.SurrealPass,
	}); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("signing in: %w", err)
	}

	if err := db.Use(ctx, cfg.SurrealNS, cfg.SurrealDB); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("selecting ns/db: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close(ctx)
}

func (c *Client) InitSchema(ctx context.Context) error {
	schema := `
DEFINE TABLE IF NOT EXISTS analysis SCHEMAFULL;

DEFINE FIELD IF NOT EXISTS analysis_id    ON TABLE analysis TYPE string;
DEFINE FIELD IF NOT EXISTS repo_path      ON TABLE analysis TYPE string;
DEFINE FIELD IF NOT EXISTS provider       ON TABLE analysis TYPE string;
DEFINE FIELD IF NOT EXISTS fell_back      ON TABLE analysis TYPE bool;
DEFINE FIELD IF NOT EXISTS install_script ON TABLE analysis TYPE string;
DEFINE FIELD IF NOT EXISTS start_script   ON TABLE analysis TYPE string;
DEFINE FIELD IF NOT EXISTS description    ON TABLE analysis TYPE string;
DEFINE FIELD IF NOT EXISTS requirements   ON TABLE analysis TYPE string;
DEFINE FIELD IF NOT EXISTS terminal_regex ON TABLE analysis TYPE string;
DEFINE FIELD IF NOT EXISTS pinokio_script ON TABLE analysis TYPE string;
DEFINE FIELD IF NOT EXISTS created_at     ON TABLE analysis TYPE datetime;

DEFINE INDEX IF NOT EXISTS idx_analysis_id ON TABLE analysis FIELDS analysis_id UNIQUE;
DEFINE INDEX IF NOT EXISTS idx_repo_path   ON TABLE analysis FIELDS repo_path;
`
	_, err := sdk.Query[any](ctx, c.db, schema, nil)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Client) SaveAnalysis(ctx context.Context, r models.AnalysisRecord) error {
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		createdAt = time.Now().UTC()
	}
	data := map[string]any{
		"analysis_id":    r.ID,
		"repo_path":      r.RepoPath,
		"provider":       r.Provider,
		"fell_back":      r.FellBack,
		"install_script": r.InstallScript,
		"start_script":   r.StartScript,
		"description":    r.Description,
		"requirements":   r.Requirements,
		"terminal_regex": r.TerminalRegex,
		"pinokio_script": r.PinokioScript,
		"created_at":     createdAt,
	}

	_, err = sdk.Query[any](ctx, c.db,
		`UPSERT type::thing("analysis", $id) MERGE $data`,
		map[string]any{
			"id":   r.ID,
			"data": data,
		})
	if err != nil {
		return fmt.Errorf("saving analysis of %s: %w", r.RepoPath, err)
	}
	return nil
}

// RecentAnalyses returns up to limit records, newest first.
func (c *Client) RecentAnalyses(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	if limit < 1 {
		limit = 1
	}
	query := fmt.Sprintf(`
		SELECT analysis_id, repo_path, provider, fell_back, install_script,
			start_script, description, requirements, terminal_regex, pinokio_script,
			<string> created_at AS created_at
		FROM analysis
		ORDER BY created_at DESC
		LIMIT %d
	`, limit)

	results, err := sdk.Query[[]models.AnalysisRecord](ctx, c.db, query, nil)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	if len(*results) == 0 {
		return nil, nil
	}
	return (*results)[0].Result, nil
}
