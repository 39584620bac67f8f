// Package google provides OAuth2 authentication and token management for
// Google APIs.
//
// It is the credential-provider collaborator for the pipelines: client
// credentials are read from an installed-app credentials file, tokens are
// cached per service as JSON files, and expired tokens are refreshed (and
// re-cached) transparently. Interactive consent runs only when stdin is a
// terminal.
package google
