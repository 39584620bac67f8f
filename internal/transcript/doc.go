// Package transcript extracts video transcripts and emits them as
// structured JSON.
//
// Transcripts come from the public player API: the player response
// lists the available caption tracks, the client orders them by
// language preference (English variants first, manually authored over
// auto-generated) and fetches tracks in that order until one succeeds.
// No API key is required for extraction; an optional Data API key
// enriches the output with title, channel and publication metadata.
package transcript
