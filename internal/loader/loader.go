// Package loader reads the documents that configure a validation run:
// requirement sets, exclusion lists and check parameters.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ErrUnsupportedExtension is returned for requirement files that are neither JSON nor HCL.
var ErrUnsupportedExtension = errors.New("unsupported requirements file extension, expected .json or .hcl")

// PrerequisiteDoc is one prerequisite entry of a validator.
type PrerequisiteDoc struct {
	Name            string `json:"name" hcl:"name,label"`
	ForgiveWarnings bool   `json:"forgive_warnings,omitempty" hcl:"forgive_warnings,optional"`
}

// ValidatorDoc is one validator entry of a requirement.
type ValidatorDoc struct {
	Name          string            `json:"name" hcl:"name,label"`
	Prerequisites []PrerequisiteDoc `json:"prerequisites,omitempty" hcl:"prerequisite,block"`
}

// RequirementDoc is one requirement: an id and its ordered validators.
type RequirementDoc struct {
	ID         string         `json:"id" hcl:"id,label"`
	Validators []ValidatorDoc `json:"validators" hcl:"validator,block"`
}

// RequirementsDocument is a requirements file as written on disk.
type RequirementsDocument struct {
	Filename     string           `json:"-"`
	Version      string           `json:"version,omitempty" hcl:"version,optional"`
	Requirements []RequirementDoc `json:"requirements" hcl:"requirement,block"`
}

// LoadRequirements reads a requirements file. The format follows the extension.
func LoadRequirements(path string) (*RequirementsDocument, error) {
	var (
		doc *RequirementsDocument
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		doc, err = loadRequirementsJSON(path)
	case ".hcl":
		doc, err = loadRequirementsHCL(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExtension, path)
	}
	if err != nil {
		return nil, err
	}
	doc.Filename = filepath.Base(path)
	return doc, nil
}

func loadRequirementsJSON(path string) (*RequirementsDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read requirements: %w", err)
	}
	var doc RequirementsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse requirements %s: %w", path, err)
	}
	return &doc, nil
}

func loadRequirementsHCL(path string) (*RequirementsDocument, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", path, diags.Error())
	}
	var doc RequirementsDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", path, diags.Error())
	}
	return &doc, nil
}
