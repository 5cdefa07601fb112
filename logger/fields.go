package logger

// Standard field names for consistent structured logging across wastalk.
// Use these constants instead of raw strings.
const (
	// Identity and context
	FieldRunID   = "run_id"
	FieldPackage = "package"
	FieldVersion = "version"
	FieldModule  = "module"

	// Components
	FieldComponent = "component"
	FieldGenerator = "generator"
	FieldTool      = "tool"

	// Files and documents
	FieldFile     = "file"
	FieldSchema   = "schema"
	FieldArtifact = "artifact"
	FieldOutDir   = "out_dir"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts
	FieldCount     = "count"
	FieldFunctions = "functions"
	FieldResources = "resources"
	FieldSkipped   = "skipped"
)
