package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultModel       = "gpt-4"
	DefaultTemperature = 0.2
	DefaultTopP        = 1.0
	DefaultMaxTokens   = 4000

	DefaultProjectRoot     = "./dbt_project"
	DefaultSourceCSVPath   = "./config/source_tables.csv"
	DefaultSchemaDefsPath  = "./config/schema_definitions.csv"
	DefaultMappingYAMLPath = "./config/table_mappings.yaml"
	DefaultPromptsPath     = "./prompts"

	DefaultDialect = "snowflake"
	DefaultTimeout = 50 * time.Second
)

// PromptKind identifies one of the built-in prompt templates.
type PromptKind string

const (
	PromptModelGeneration PromptKind = "model_generation"
	PromptCodeReview      PromptKind = "code_review"
	PromptUnitTest        PromptKind = "unit_test"
)

type (
	// LLM holds the text-generation collaborator settings.
	LLM struct {
		APIURL      string  `validate:"omitempty,url"`
		APIKey      string
		Model       string `validate:"required"`
		Temperature float64
		TopP        float64
		MaxTokens   int `validate:"gt=0"`
	}

	// Paths holds the input and output file locations for a generation run.
	Paths struct {
		ProjectRoot string `validate:"required"`
		SourceCSV   string
		SchemaDefs  string
		MappingYAML string
		Prompts     string
	}

	// Config is the process-wide configuration, sourced from environment
	// variables with fixed defaults. It is constructed once at startup and
	// passed by reference to every component; nothing mutates it afterwards.
	Config struct {
		LLM     LLM
		Paths   Paths
		Dialect string
		Timeout time.Duration

		prompts map[PromptKind]string
	}
)

// New builds a Config from the environment. A .env file in the working
// directory is loaded first if present, matching local-development workflows.
//
// Recognized variables (all optional):
//
//	LLM_API_URL, LLM_API_KEY, LLM_MODEL, LLM_TEMPERATURE, LLM_TOP_P, LLM_MAX_TOKENS
//	PROJECT_ROOT, SOURCE_CSV_PATH, SCHEMA_DEFINITIONS_PATH, MAPPING_YAML_PATH, PROMPTS_PATH
//	SQL_DIALECT, GENERATION_TIMEOUT
//	MODEL_GENERATION_PROMPT, CODE_REVIEW_PROMPT, UNIT_TEST_PROMPT
func New() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("llm_api_url", "")
	v.SetDefault("llm_api_key", "")
	v.SetDefault("llm_model", DefaultModel)
	v.SetDefault("llm_temperature", DefaultTemperature)
	v.SetDefault("llm_top_p", DefaultTopP)
	v.SetDefault("llm_max_tokens", DefaultMaxTokens)
	v.SetDefault("project_root", DefaultProjectRoot)
	v.SetDefault("source_csv_path", DefaultSourceCSVPath)
	v.SetDefault("schema_definitions_path", DefaultSchemaDefsPath)
	v.SetDefault("mapping_yaml_path", DefaultMappingYAMLPath)
	v.SetDefault("prompts_path", DefaultPromptsPath)
	v.SetDefault("sql_dialect", DefaultDialect)
	v.SetDefault("generation_timeout", DefaultTimeout.String())
	v.SetDefault("model_generation_prompt",
		"You are an expert dbt developer. Create a production-ready dbt model.")
	v.SetDefault("code_review_prompt",
		"You are a senior dbt developer. Review the following code for quality and best practices.")
	v.SetDefault("unit_test_prompt",
		"You are an expert dbt developer. Generate comprehensive unit tests for the following model.")
	v.AutomaticEnv()

	timeout, err := time.ParseDuration(v.GetString("generation_timeout"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid GENERATION_TIMEOUT")
	}

	cfg := &Config{
		LLM: LLM{
			APIURL:      v.GetString("llm_api_url"),
			APIKey:      v.GetString("llm_api_key"),
			Model:       v.GetString("llm_model"),
			Temperature: v.GetFloat64("llm_temperature"),
			TopP:        v.GetFloat64("llm_top_p"),
			MaxTokens:   v.GetInt("llm_max_tokens"),
		},
		Paths: Paths{
			ProjectRoot: v.GetString("project_root"),
			SourceCSV:   v.GetString("source_csv_path"),
			SchemaDefs:  v.GetString("schema_definitions_path"),
			MappingYAML: v.GetString("mapping_yaml_path"),
			Prompts:     v.GetString("prompts_path"),
		},
		Dialect: v.GetString("sql_dialect"),
		Timeout: timeout,
		prompts: map[PromptKind]string{
			PromptModelGeneration: v.GetString("model_generation_prompt"),
			PromptCodeReview:      v.GetString("code_review_prompt"),
			PromptUnitTest:        v.GetString("unit_test_prompt"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the structural invariants of the configuration. Missing
// optional inputs (catalog files, prompts directory) are not errors here;
// they are reported as advisory issues at the start of a run instead.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	return nil
}

// Issues reports advisory configuration problems: configured input files or
// directories that do not exist, and a missing API credential. None of these
// block a run; phases that need a missing input are skipped or degrade.
func (c *Config) Issues() []string {
	var issues []string

	if c.LLM.APIKey == "" {
		issues = append(issues, "LLM_API_KEY is not set; generated bodies will use fallback text")
	}

	for _, path := range []string{c.Paths.SourceCSV, c.Paths.SchemaDefs, c.Paths.MappingYAML, c.Paths.Prompts} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			issues = append(issues, "configuration path not found: "+path)
		}
	}

	return issues
}

// PromptTemplate resolves the template text for the given kind. A file named
// <kind>.txt in the prompts directory wins; otherwise the configured (or
// default) template text is returned.
func (c *Config) PromptTemplate(kind PromptKind) string {
	path := filepath.Join(c.Paths.Prompts, string(kind)+".txt")
	if data, err := os.ReadFile(path); err == nil {
		return string(data)
	}

	return c.prompts[kind]
}
