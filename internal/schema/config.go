package schema

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// overlay mirrors Registry but with every section optional, so a config
// file only has to name what it changes.
type overlay struct {
	KeyColumn       string          `yaml:"key_column"`
	EpiKeyAlias     string          `yaml:"epi_key_alias"`
	SampleColumns   []string        `yaml:"sample_columns"`
	EpiColumns      []string        `yaml:"epi_columns"`
	MetadataFields  []MetadataField `yaml:"metadata_fields"`
	ReservedColumns []string        `yaml:"reserved_columns"`
}

// LoadConfig applies a YAML override file on top of the default registry.
// Each section present in the file replaces the default section wholesale;
// absent sections keep their defaults. The resulting registry is validated
// before being returned.
func LoadConfig(data []byte) (*Registry, error) {
	var o overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parsing registry config: %w", err)
	}

	r := Default()
	if o.KeyColumn != "" {
		r.KeyColumn = o.KeyColumn
	}
	if o.EpiKeyAlias != "" {
		r.EpiKeyAlias = o.EpiKeyAlias
	}
	if o.SampleColumns != nil {
		r.SampleColumns = o.SampleColumns
	}
	if o.EpiColumns != nil {
		r.EpiColumns = o.EpiColumns
	}
	if o.MetadataFields != nil {
		r.MetadataFields = o.MetadataFields
	}
	if o.ReservedColumns != nil {
		r.ReservedColumns = o.ReservedColumns
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks registry consistency: the key column must be part of the
// sample sheet, the alias part of the Epi export, metadata sources must be
// recognized and patterns must compile, and the derived output header must
// be duplicate-free.
func (r *Registry) Validate() error {
	if r.KeyColumn == "" {
		return fmt.Errorf("registry: key_column must not be empty")
	}
	if !contains(r.SampleColumns, r.KeyColumn) {
		return fmt.Errorf("registry: key column %q is not a sample sheet column", r.KeyColumn)
	}
	if !contains(r.EpiColumns, r.EpiKeyAlias) {
		return fmt.Errorf("registry: epi key alias %q is not an epi column", r.EpiKeyAlias)
	}

	for _, f := range r.MetadataFields {
		if f.Column == "" {
			return fmt.Errorf("registry: metadata field with empty column name")
		}
		if len(f.Sources) == 0 {
			return fmt.Errorf("registry: metadata field %q declares no sources", f.Column)
		}
		for _, s := range f.Sources {
			switch s {
			case SourceOperator, SourceInstrument, SourceSheet:
			default:
				return fmt.Errorf("registry: metadata field %q has unknown source %q", f.Column, s)
			}
		}
		if f.Pattern != "" {
			if _, err := regexp.Compile(f.Pattern); err != nil {
				return fmt.Errorf("registry: metadata field %q pattern: %w", f.Column, err)
			}
		}
	}

	seen := make(map[string]bool)
	for _, c := range r.OutputColumns() {
		if seen[c] {
			return fmt.Errorf("registry: output column %q appears twice", c)
		}
		seen[c] = true
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
