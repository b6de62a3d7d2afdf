package logging

const (
	// FieldComponent is the structured logging key for component names; the
	// console handler promotes it into the message prefix.
	FieldComponent = "component"
	// FieldClip is the structured logging key for clip sequence numbers.
	FieldClip = "clip"
	// FieldStage is the structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldArtifact is the structured logging key for artifact kinds.
	FieldArtifact = "artifact"
	// FieldRunID is the structured logging key for run identifiers.
	FieldRunID = "run_id"
)
