package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tier4/mapvalidator/schema"
)

type exclusionValidator struct {
	Name string `json:"name"`
}

type exclusionDoc struct {
	Primitive  string               `json:"primitive"`
	ID         int64                `json:"id"`
	Validators *[]exclusionValidator `json:"validators,omitempty"`
}

type exclusionList struct {
	Exclusion []exclusionDoc `json:"exclusion"`
}

// LoadExclusions reads an exclusion list. Entries without a validators key are
// global. An empty validators list excludes nothing.
// Unknown primitives and check names are rejected when the filter is built.
func LoadExclusions(path string) ([]schema.ExclusionEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read exclusion list: %w", err)
	}
	var list exclusionList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse exclusion list %s: %w", path, err)
	}

	entries := make([]schema.ExclusionEntry, 0, len(list.Exclusion))
	for _, doc := range list.Exclusion {
		entry := schema.ExclusionEntry{SubjectKind: schema.SubjectKind(doc.Primitive), SubjectID: doc.ID}
		if doc.Validators != nil {
			entry.Checks = make([]string, 0, len(*doc.Validators))
			for _, v := range *doc.Validators {
				entry.Checks = append(entry.Checks, v.Name)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
