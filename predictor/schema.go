package predictor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// SchemaVersion identifies which generation of the feature contract a loaded
// order follows.
type SchemaVersion string

const (
	// SchemaV1 is the original 17-column contract without a gender feature.
	SchemaV1 SchemaVersion = "v1"
	// SchemaV2 adds Gender and widens the cigarette bucket to three levels.
	SchemaV2 SchemaVersion = "v2"
)

// FeatureOrder is the exact column layout the scoring artifact was trained
// with. It is loaded once at startup and treated as immutable afterwards.
type FeatureOrder []string

// LoadFeatureOrder reads a JSON array of feature names from path.
func LoadFeatureOrder(path string) (FeatureOrder, error) {
	if path == "" {
		path = defaultSchemaFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewArtifactLoadError(path, err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, NewArtifactLoadError(path, fmt.Errorf("decode feature order: %w", err))
	}
	order := make(FeatureOrder, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, NewArtifactLoadError(path, fmt.Errorf("duplicate feature %q", name))
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}
	if len(order) == 0 {
		return nil, NewArtifactLoadError(path, errors.New("feature order is empty"))
	}
	return order, nil
}

// Version detects the contract generation from the loaded column set.
func (o FeatureOrder) Version() SchemaVersion {
	if o.Contains(FeatureGender) {
		return SchemaV2
	}
	return SchemaV1
}

// Contains reports whether name appears in the order.
func (o FeatureOrder) Contains(name string) bool {
	for _, n := range o {
		if n == name {
			return true
		}
	}
	return false
}

// Clone returns a copy callers may hold without aliasing the loaded order.
func (o FeatureOrder) Clone() FeatureOrder {
	out := make(FeatureOrder, len(o))
	copy(out, o)
	return out
}
