// Package render produces the per-clip artifacts by invoking ffmpeg.
//
// Five artifact kinds derive independently from one source cut: the raw
// cut, camera and screen crops, a vertically stacked composite of both
// crops, and an audio-only extraction. A failure in one kind never blocks
// the others; callers receive a Result per kind and aggregate outcomes.
//
// Crop rectangles are validated against the probed frame dimensions before
// ffmpeg runs, so an out-of-bounds rectangle fails fast with a descriptive
// error instead of an opaque ffmpeg exit status. An optional watermark is
// burned into visual artifacts; when the watermark pass fails the renderer
// retries unwatermarked and reports the degradation through the Result.
package render
