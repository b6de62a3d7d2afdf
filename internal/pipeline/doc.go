// Package pipeline orchestrates a batch clip run against one root
// folder: parse the clip table, probe the source recording once, then
// process each clip in table order through range normalization,
// rendering, metadata, and transcription.
//
// Clips fail independently. A clip whose range collapses is skipped, a
// clip with a mix of good and bad artifacts is partially failed, and
// only environment-level problems (unreadable table, missing source,
// another run holding the lock) abort the whole run.
package pipeline
