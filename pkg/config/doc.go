// Package config provides the process-wide configuration for dbtforge.
//
// Configuration is sourced from environment variables with fixed defaults
// (see New for the recognized variables), optionally seeded from a .env file
// in the working directory. The resulting Config value is immutable: it is
// built once at startup and handed to every component by reference, so there
// is no ambient mutable configuration state anywhere in the process.
//
// Prompt templates for the text-generation collaborator resolve in two
// stages: a <kind>.txt file inside the prompts directory takes precedence,
// falling back to the template configured via environment (or its default).
package config
