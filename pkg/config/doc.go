// Package config provides application configuration management from
// environment variables.
//
// All settings are read from DOCMAN_-prefixed environment variables with
// sensible defaults. Three settings have no default and must be provided:
// DOCMAN_POSTGRES_URL, DOCMAN_JWT_SECRET and DOCMAN_ADMIN_PASSWORD.
package config
