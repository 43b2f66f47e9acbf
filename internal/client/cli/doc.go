// Package cli implements the interactive kiosk admin console.
//
// The console fronts the state facade with a small REPL: catalogue CRUD with
// trash management, storage provider control (folder or custom API), manual
// backup export/import, asset ingestion, and view statistics. Handlers
// prompt interactively for their inputs; the REPL itself only dispatches
// single-token commands.
package cli
