package checker

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// SchemaManifest describes what the migrated schema is expected to contain:
// the tables that must exist and the enumerated-type columns with their
// expected label sets.
type SchemaManifest struct {
	Tables []TableSpec `yaml:"tables"`
}

// TableSpec describes one expected table
type TableSpec struct {
	Name  string     `yaml:"name"`
	Enums []EnumSpec `yaml:"enums,omitempty"`
}

// EnumSpec describes one enumerated-type column on a table
type EnumSpec struct {
	Name   string   `yaml:"name"`
	Column string   `yaml:"column"`
	Values []string `yaml:"values"`
}

// DefaultManifest returns the expected schema of the legal-document
// migration: four tables and five enum columns.
func DefaultManifest() *SchemaManifest {
	return &SchemaManifest{
		Tables: []TableSpec{
			{
				Name: "legal_documents",
				Enums: []EnumSpec{
					{
						Name:   "legal_document_type",
						Column: "legal_document_type",
						Values: []string{"law", "regulation", "policy", "decision", "other"},
					},
				},
			},
			{
				Name: "legal_changes",
				Enums: []EnumSpec{
					{
						Name:   "change_type",
						Column: "change_type",
						Values: []string{"amendment", "repeal", "new", "interpretation", "other"},
					},
				},
			},
			{
				Name: "contracts",
				Enums: []EnumSpec{
					{
						Name:   "contract_type",
						Column: "contract_type",
						Values: []string{"employment", "service", "sales", "lease", "nda", "other"},
					},
				},
			},
			{
				Name: "contract_impacts",
				Enums: []EnumSpec{
					{
						Name:   "impact_level",
						Column: "impact_level",
						Values: []string{"low", "medium", "high", "critical"},
					},
					{
						Name:   "priority_level",
						Column: "priority_level",
						Values: []string{"low", "medium", "high", "urgent"},
					},
				},
			},
		},
	}
}

// LoadManifest reads a schema manifest from a YAML file.
func LoadManifest(path string) (*SchemaManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest SchemaManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	return &manifest, nil
}

// Validate checks that the manifest is usable.
func (m *SchemaManifest) Validate() error {
	if len(m.Tables) == 0 {
		return fmt.Errorf("manifest declares no tables")
	}

	for _, table := range m.Tables {
		if table.Name == "" {
			return fmt.Errorf("manifest contains a table without a name")
		}
		for _, enum := range table.Enums {
			if enum.Name == "" || enum.Column == "" {
				return fmt.Errorf("table %s declares an enum without name or column", table.Name)
			}
			if len(enum.Values) == 0 {
				return fmt.Errorf("enum %s on table %s declares no values", enum.Name, table.Name)
			}
		}
	}

	return nil
}
