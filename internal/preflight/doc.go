// Package preflight validates the environment before a pipeline run:
// root folder access, required input files, free disk space, external
// binaries, and transcription credentials. Checks degrade to readable
// failure details instead of returning errors so the CLI can print the
// whole picture at once.
package preflight
