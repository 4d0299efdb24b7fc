package importer

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"assets-manager/internal/asset"

	"gopkg.in/yaml.v3"
)

//go:embed default_mapping.yaml
var defaultMapping []byte

// MappingConfig tells the importer which sheets to read and which header
// names feed each asset field.
type MappingConfig struct {
	Version int `yaml:"version"`
	// Sheets lists the sheet names to import. Empty imports every sheet.
	Sheets []string `yaml:"sheets"`
	// Aliases maps a field name to the header names accepted for it.
	Aliases map[string][]string `yaml:"aliases"`
	// Defaults fills a field when its cell is blank or its column is missing.
	Defaults map[string]string `yaml:"defaults"`
}

var knownFields = []string{
	asset.FieldName,
	asset.FieldSerialNumber,
	asset.FieldCategory,
	asset.FieldStatus,
	asset.FieldAcquisitionDate,
}

var requiredFields = []string{
	asset.FieldName,
	asset.FieldSerialNumber,
	asset.FieldCategory,
	asset.FieldStatus,
}

// DefaultMapping returns the embedded mapping.
func DefaultMapping() (*MappingConfig, error) {
	return ParseMapping(defaultMapping)
}

// LoadMapping reads a mapping file. An empty path yields the embedded mapping.
func LoadMapping(path string) (*MappingConfig, error) {
	if path == "" {
		return DefaultMapping()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	return ParseMapping(data)
}

// ParseMapping decodes and checks a YAML mapping.
func ParseMapping(data []byte) (*MappingConfig, error) {
	var m MappingConfig
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	if m.Version != 1 {
		return nil, fmt.Errorf("unsupported mapping version %d", m.Version)
	}
	for field := range m.Aliases {
		if !isKnownField(field) {
			return nil, fmt.Errorf("mapping: unknown field %q", field)
		}
	}
	for field := range m.Defaults {
		if !isKnownField(field) {
			return nil, fmt.Errorf("mapping: unknown default field %q", field)
		}
	}
	return &m, nil
}

func (m *MappingConfig) wantsSheet(name string) bool {
	if len(m.Sheets) == 0 {
		return true
	}
	for _, s := range m.Sheets {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// fieldFor resolves a header cell to a field name. The field name itself is
// always accepted as a header.
func (m *MappingConfig) fieldFor(header string) (string, bool) {
	header = strings.TrimSpace(header)
	for _, field := range knownFields {
		if strings.EqualFold(header, field) {
			return field, true
		}
		for _, alias := range m.Aliases[field] {
			if strings.EqualFold(header, strings.TrimSpace(alias)) {
				return field, true
			}
		}
	}
	return "", false
}

func isKnownField(field string) bool {
	for _, f := range knownFields {
		if f == field {
			return true
		}
	}
	return false
}
