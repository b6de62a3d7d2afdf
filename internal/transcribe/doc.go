// Package transcribe wires the external transcription/translation
// capability into per-clip subtitle files.
//
// The pipeline only needs a Transcriber (media path in, timed segments
// out) and optionally a Translator; the OpenAI-backed implementations
// live here too, but the bridge treats both as opaque, fallible, slow
// operations. Transcription failure is non-fatal to a clip, and the
// bridge skips work entirely when the subtitle files from a prior run
// are already present and non-empty.
package transcribe
