// Package history persists run outcomes in a per-root SQLite database.
//
// Every pipeline run inserts one row describing the run and one row per
// clip outcome. The database lives under the root folder's .clipper
// directory, so the history travels with the source material.
package history
