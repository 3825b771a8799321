// Package config provides configuration management for webscrap.
//
// Configuration comes from two sources:
//   - CLI flags, which populate the flat Config struct
//   - An optional .webscrap YAML file with per-site profiles
//
// Design decision: We pass the Config struct through the application via
// dependency injection rather than package-level state. This keeps crawl
// sessions independent and makes components testable with custom
// configurations.
package config
