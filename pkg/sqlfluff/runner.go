package sqlfluff

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultCommandTimeout bounds a single formatter or linter invocation.
const DefaultCommandTimeout = 30 * time.Second

type (
	// Runner invokes the external sqlfluff and yamllint processes. Every
	// operation is best-effort: a missing binary, non-zero exit, or timeout
	// degrades to a no-op (format) or an empty report (lint) so the
	// generation pipeline always makes forward progress.
	Runner struct {
		dialect string
		timeout time.Duration
		logger  zerolog.Logger
	}

	// Violation is one advisory finding from a lint pass.
	Violation struct {
		Line        int    `json:"line_no"`
		Code        string `json:"code"`
		Description string `json:"description"`
	}

	// lintResult mirrors `sqlfluff lint --format json` output.
	lintResult struct {
		Filepath   string      `json:"filepath"`
		Violations []Violation `json:"violations"`
	}
)

// New creates a Runner for the given SQL dialect.
func New(dialect string, logger zerolog.Logger) *Runner {
	return &Runner{
		dialect: dialect,
		timeout: DefaultCommandTimeout,
		logger:  logger.With().Str("component", "sqlfluff").Logger(),
	}
}

// Installed reports whether the sqlfluff binary is available.
func (r *Runner) Installed(ctx context.Context) bool {
	_, err := r.run(ctx, "sqlfluff", "--version")
	return err == nil
}

// TryFormat formats the SQL file at path in place with `sqlfluff fix`. On
// any failure the file is left exactly as it was and the failure is logged;
// formatting never blocks a run.
func (r *Runner) TryFormat(ctx context.Context, path string) {
	_, err := r.run(ctx, "sqlfluff", "fix", "--dialect", r.dialect, "--disable-progress-bar", "--force", path)
	if err != nil {
		r.logger.Warn().Err(err).Str("path", path).Msg("sqlfluff fix failed; leaving file unformatted")
	}
}

// TryLint lints the SQL file at path and returns any violations. Failures
// are logged and reported as no violations.
func (r *Runner) TryLint(ctx context.Context, path string) []Violation {
	out, err := r.run(ctx, "sqlfluff", "lint", "--dialect", r.dialect, "--format", "json", path)
	if err != nil {
		// sqlfluff exits non-zero when violations are found; the JSON report
		// is still on stdout, so only give up when there is nothing to parse.
		if len(bytes.TrimSpace(out)) == 0 {
			r.logger.Warn().Err(err).Str("path", path).Msg("sqlfluff lint failed")
			return nil
		}
	}

	var results []lintResult
	if err := json.Unmarshal(out, &results); err != nil {
		r.logger.Warn().Err(err).Str("path", path).Msg("could not parse sqlfluff output")
		return nil
	}

	var violations []Violation
	for _, res := range results {
		violations = append(violations, res.Violations...)
	}

	return violations
}

// TryLintYAML lints a YAML file with yamllint. Findings come back one per
// line in parsable format; failures to run the linter at all are logged and
// reported as no violations.
func (r *Runner) TryLintYAML(ctx context.Context, path string) []Violation {
	out, err := r.run(ctx, "yamllint", "-f", "parsable", path)
	if err != nil && len(bytes.TrimSpace(out)) == 0 {
		r.logger.Warn().Err(err).Str("path", path).Msg("yamllint could not be performed")
		return nil
	}

	return parseYamllint(out)
}

// parseYamllint converts `yamllint -f parsable` output (file:line:col: [level]
// message) into violations, keeping the full line as the description.
func parseYamllint(out []byte) []Violation {
	var violations []Violation
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		violations = append(violations, Violation{Description: line})
	}

	return violations
}

func (r *Runner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout

	err := cmd.Run()
	return stdout.Bytes(), err
}
