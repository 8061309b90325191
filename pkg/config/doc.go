// Package config loads environment variables into typed configuration structs.
//
// It wraps caarlos0/env with per-type caching so that each configuration type
// is parsed exactly once per process, and bootstraps a .env file via godotenv
// when one is present. Every package in the pipeline declares its own Config
// struct with env tags and loads it through config.Load or config.MustLoad.
package config
