package predictor

import "fmt"

// ArtifactLoadError indicates the scoring model or the feature order file
// could not be read or parsed.
type ArtifactLoadError struct {
	Path string
	Err  error
}

// NewArtifactLoadError wraps a load failure for the artifact at path.
func NewArtifactLoadError(path string, err error) *ArtifactLoadError {
	return &ArtifactLoadError{Path: path, Err: err}
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("load artifact %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *ArtifactLoadError) Unwrap() error {
	return e.Err
}

// SchemaMismatchError indicates the feature vector width disagrees with the
// width the scoring artifact expects.
type SchemaMismatchError struct {
	Expected int
	Got      int
}

// NewSchemaMismatchError reports a width disagreement between the schema and
// the model.
func NewSchemaMismatchError(expected, got int) *SchemaMismatchError {
	return &SchemaMismatchError{Expected: expected, Got: got}
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: model expects %d features, got %d", e.Expected, e.Got)
}
