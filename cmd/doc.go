// Package cmd implements the command-line interface for vaultpipe.
//
// This package provides the following commands:
//   - events: Print a calendar day as a JSON briefing
//   - ingest: Archive labeled mail into the vault as Markdown notes
//   - transcript: Fetch a video transcript as JSON
//   - version: Display version information
//
// Commands write machine-readable output to stdout; logs and error
// objects go to stderr.
package cmd
