// Package metadata composes the per-clip metadata document from root
// metadata plus clip fields.
package metadata

import (
	"fmt"
	"path/filepath"
	"strings"

	"clipper/internal/cliptable"
	"clipper/internal/fileutil"
	"clipper/internal/timerange"
)

// Filename is the metadata document name inside a clip directory.
const Filename = "metadata.md"

// Write renders the metadata document for one clip into destDir and
// returns its path. Root metadata, when present, is prepended verbatim.
// Re-running overwrites the prior document deterministically.
func Write(destDir, rootMetadata string, spec cliptable.Spec, rng timerange.Range) (string, error) {
	path := filepath.Join(destDir, Filename)
	if err := fileutil.WriteFileAtomic(path, []byte(Render(rootMetadata, spec, rng)), 0o644); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	return path, nil
}

// Render builds the document content. Field order is fixed: sequence,
// range, summary, title, hook.
func Render(rootMetadata string, spec cliptable.Spec, rng timerange.Range) string {
	var b strings.Builder

	if trimmed := strings.TrimSpace(rootMetadata); trimmed != "" {
		b.WriteString(trimmed)
		b.WriteString("\n\n---\n\n")
	}

	fmt.Fprintf(&b, "# Clip %d\n\n", spec.Sequence)
	fmt.Fprintf(&b, "Range: %s - %s\n", timerange.FormatSeconds(rng.Start), timerange.FormatSeconds(rng.End))

	writeSection(&b, "Summary", spec.Summary)
	writeSection(&b, "Title", spec.Title)
	writeSection(&b, "Hook", spec.Hook)

	return b.String()
}

func writeSection(b *strings.Builder, heading, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	fmt.Fprintf(b, "\n## %s\n%s\n", heading, value)
}
