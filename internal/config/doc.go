// Package config loads runtime configuration from multiple sources (an optional
// .env file, environment variables, a YAML file, CLI flags) with precedence:
// CLI flags > YAML config > Environment variables > Defaults. It exposes
// strongly typed settings, including the storage container dimensions and fill
// factor used by the packing engine, to the rest of the application.
package config
