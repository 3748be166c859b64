package loader

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tier4/mapvalidator/schema"
)

// LoadParameters reads a YAML file of per-check parameters keyed by check name.
func LoadParameters(path string) (schema.Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters: %w", err)
	}
	var params schema.Parameters
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("failed to parse parameters %s: %w", path, err)
	}
	if params == nil {
		params = schema.Parameters{}
	}
	return params, nil
}

// MergeParameters overlays the keys of top on base and returns the result.
// Neither argument is modified.
func MergeParameters(base, top schema.Parameters) schema.Parameters {
	merged := make(schema.Parameters, len(base)+len(top))
	for check, params := range base {
		merged[check] = maps.Clone(params)
	}
	for check, params := range top {
		if merged[check] == nil {
			merged[check] = schema.CheckParameters{}
		}
		maps.Copy(merged[check], params)
	}
	return merged
}
