package project

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/dbtforge/dbtforge/pkg/catalog"
	"github.com/dbtforge/dbtforge/pkg/config"
	"github.com/dbtforge/dbtforge/pkg/llm"
	"github.com/dbtforge/dbtforge/pkg/mapping"
	"github.com/dbtforge/dbtforge/pkg/schemadoc"
	"github.com/dbtforge/dbtforge/pkg/sources"
	"github.com/dbtforge/dbtforge/pkg/sqlfluff"
)

// Fallback text used when the text-generation collaborator fails.
const (
	fallbackBody      = "-- No code generated"
	fallbackChecklist = "No tester suggestions."
	fallbackTests     = "-- No tests generated"
)

type (
	// Generator sequences a full scaffolding run over one project root:
	// structure creation, source-catalog merging, model body generation,
	// schema documents, and unit-test stubs. All document generation and
	// file I/O happens on a single logical thread; phases run strictly in
	// order and the first phase failure aborts the run.
	Generator struct {
		cfg    *config.Config
		root   string
		llm    *llm.Client
		fluff  *sqlfluff.Runner
		logger zerolog.Logger
	}

	// Factory builds a Generator for a project root, letting commands honor
	// a per-invocation root override without mutating the shared Config.
	Factory func(projectRoot string) *Generator
)

// New creates a Generator rooted at root.
func New(cfg *config.Config, root string, client *llm.Client, fluff *sqlfluff.Runner, logger zerolog.Logger) *Generator {
	return &Generator{
		cfg:    cfg,
		root:   root,
		llm:    client,
		fluff:  fluff,
		logger: logger.With().Str("component", "generator").Logger(),
	}
}

// Root returns the project root this generator writes below.
func (g *Generator) Root() string {
	return g.root
}

// Run executes the full generation sequence against the given catalog and
// mapping paths. Phases whose input path is empty are skipped; any phase
// failure aborts the run. Advisory configuration issues are logged up front
// and never block.
func (g *Generator) Run(ctx context.Context, csvPath, mappingPath string) error {
	for _, issue := range g.cfg.Issues() {
		g.logger.Warn().Msg(issue)
	}

	if err := g.CreateStructure(); err != nil {
		return err
	}

	if csvPath != "" {
		if err := g.MergeSources(ctx, csvPath); err != nil {
			return err
		}
	}

	if mappingPath != "" {
		if err := g.GenerateModels(ctx, mappingPath); err != nil {
			return err
		}
		if err := g.GenerateSchemas(ctx, mappingPath, g.cfg.Paths.SchemaDefs); err != nil {
			return err
		}
		if err := g.GenerateUnitTests(ctx, mappingPath); err != nil {
			return err
		}
	}

	return nil
}

// CreateStructure creates the standard project skeleton (idempotent).
func (g *Generator) CreateStructure() error {
	return CreateStructure(g.root)
}

// MergeSources merges every row of the source-table catalog at csvPath into
// its per-(database, schema) source document. A missing or malformed catalog
// is fatal; a missing mapping document or schema-definitions catalog only
// narrows column resolution.
func (g *Generator) MergeSources(ctx context.Context, csvPath string) error {
	rows, err := catalog.ReadSourceTables(csvPath)
	if err != nil {
		return err
	}

	var defs []catalog.ColumnDef
	if path := g.cfg.Paths.SchemaDefs; fileExists(path) {
		if defs, err = catalog.ReadSchemaDefinitions(path); err != nil {
			return err
		}
	}

	var mappingDoc *mapping.Document
	if path := g.cfg.Paths.MappingYAML; fileExists(path) {
		if mappingDoc, err = mapping.LoadFile(path); err != nil {
			return err
		}
	}

	merger := sources.NewMerger(g.root, g.fluff, g.logger)
	return merger.MergeAll(ctx, rows, mappingDoc, defs)
}

// GenerateModels writes one model file per mapping entry, staging models
// first. Each file is the collaborator's pre-deployment checklist followed
// by its SQL body, both rendered as comment blocks: generated SQL is never
// written in executable form, so nothing ungoverned can run until a human
// uncomments it. Removing that step would silently change the policy.
func (g *Generator) GenerateModels(ctx context.Context, mappingPath string) error {
	doc, err := mapping.LoadFile(mappingPath)
	if err != nil {
		return err
	}

	for _, m := range doc.All() {
		if err := g.generateModel(ctx, m); err != nil {
			return err
		}
	}

	return nil
}

func (g *Generator) generateModel(ctx context.Context, m *mapping.Model) error {
	modelType := m.Type
	if modelType == "" {
		modelType = "staging"
	}

	dir := filepath.Join(g.root, "models", modelType)
	if modelType == "marts" {
		dir = filepath.Join(g.root, "models", "marts")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create model directory: %s", dir)
	}

	entry, err := json.Marshal(m)
	if err != nil {
		return errors.Wrapf(err, "failed to serialize mapping entry: %s", m.Name)
	}
	prompt := g.cfg.PromptTemplate(config.PromptModelGeneration) +
		"\n\nGenerate dbt model for " + m.Name + " with mapping: " + string(entry)

	auditPath := filepath.Join(g.root, "logs", "model_generation_"+m.Name+".log")
	if err := g.llm.Audit(auditPath, prompt); err != nil {
		return err
	}

	body := g.llm.Generate(ctx, prompt).Content(fallbackBody)

	checklistPrompt := g.cfg.PromptTemplate(config.PromptCodeReview) +
		"\n\nSuggest checks a developer should do before deploying the dbt model " +
		m.Name + ". Return as a checklist."
	checklist := g.llm.Generate(ctx, checklistPrompt).Content(fallbackChecklist)

	content := commentOut(checklist) + "\n" + commentOut(body)

	path := filepath.Join(dir, m.Name+".sql")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write model file: %s", path)
	}

	g.logger.Info().Str("model", m.Name).Str("path", path).Msg("generated model body")
	g.fluff.TryFormat(ctx, path)

	return nil
}

// GenerateSchemas writes one schema document per output-directory grouping
// of the mapping document's models. Validation findings from both the
// mapping document and the schema-definitions catalog are advisory: they
// are logged and generation continues.
func (g *Generator) GenerateSchemas(ctx context.Context, mappingPath, schemaDefsPath string) error {
	_ = ctx

	if fileExists(schemaDefsPath) {
		defs, err := catalog.ReadSchemaDefinitions(schemaDefsPath)
		if err != nil {
			return err
		}
		for _, issue := range catalog.ValidateSchemaDefinitions(defs) {
			g.logger.Warn().Msg(issue)
		}
	} else {
		g.logger.Info().Msg("no schema definitions catalog; proceeding with mapping-based generation only")
	}

	doc, err := mapping.LoadFile(mappingPath)
	if err != nil {
		return err
	}

	for _, issue := range doc.Validate() {
		g.logger.Warn().Msg(issue)
	}

	written, err := schemadoc.WriteAll(g.root, doc.Models)
	for _, path := range written {
		g.logger.Info().Str("path", path).Msg("generated schema document")
	}

	return err
}

// GenerateUnitTests asks the collaborator for unit-test stubs for each
// model entry and writes them under tests/. A model file that was never
// generated is an advisory skip, not a failure.
func (g *Generator) GenerateUnitTests(ctx context.Context, mappingPath string) error {
	doc, err := mapping.LoadFile(mappingPath)
	if err != nil {
		return err
	}

	for _, m := range doc.Models {
		if m.Name == "" {
			continue
		}

		modelPath := g.modelPathForTests(m)
		code, err := os.ReadFile(modelPath)
		if err != nil {
			g.logger.Warn().Str("path", modelPath).Msg("model file not found for testing")
			continue
		}

		prompt := g.cfg.PromptTemplate(config.PromptUnitTest) +
			"\n\nModel: " + m.Name +
			"\nExpected behavior: " + m.ExpectedBehavior +
			"\n\n" + string(code)

		testCode := g.llm.Generate(ctx, prompt).Content(fallbackTests)

		testPath := filepath.Join(g.root, "tests", "test_"+m.Name+".sql")
		if err := os.MkdirAll(filepath.Dir(testPath), 0o755); err != nil {
			return errors.Wrapf(err, "failed to create tests directory for %s", testPath)
		}
		if err := os.WriteFile(testPath, []byte(testCode), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write test file: %s", testPath)
		}

		g.logger.Info().Str("model", m.Name).Str("path", testPath).Msg("generated unit tests")
	}

	return nil
}

// modelPathForTests mirrors where the schema generator groups a model, which
// for marts models differs from where the body generator writes it
// (models/marts/<name>.sql). The resulting miss is reported and skipped.
func (g *Generator) modelPathForTests(m *mapping.Model) string {
	modelType := m.Type
	if modelType == "" {
		modelType = "marts"
	}

	if modelType == "marts" {
		martType := m.MartType
		if martType == "" {
			martType = "dimensions"
		}
		return filepath.Join(g.root, "models", "marts", martType, m.Name+".sql")
	}

	return filepath.Join(g.root, "models", modelType, m.Name+".sql")
}

// commentOut renders text as a SQL comment block, one "-- " prefix per line.
func commentOut(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "-- " + line
	}

	return strings.Join(lines, "\n")
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
