package mapper

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// documentVersion is the only schema version currently understood.
const documentVersion = "1"

// Document is a mapping definition loaded from YAML:
//
//	version: "1"
//	mappings:
//	  customer.name: "{{ user.profile.name | trim | title }}"
//	  total: "{{ orders.*.total | sum }}"
//
// Every template is parsed at load time, so a document that unmarshals
// cleanly is known to be evaluable.
type Document struct {
	Version  string            `yaml:"version"`
	Mappings map[string]string `yaml:"mappings"`

	mapper *Mapper
}

// ParseDocument loads and validates a YAML mapping document. Options
// configure the mapper the document will apply with.
func ParseDocument(data []byte, opts ...Option) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrInvalidDocument, err)
	}
	if doc.Version != "" && doc.Version != documentVersion {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidDocument, doc.Version)
	}
	if len(doc.Mappings) == 0 {
		return nil, fmt.Errorf("%w: no mappings defined", ErrInvalidDocument)
	}

	m := New(opts...)
	for target, tmpl := range doc.Mappings {
		if _, err := m.parseTemplate(tmpl); err != nil {
			return nil, fmt.Errorf("mapping %s: %w", target, err)
		}
	}
	doc.mapper = m
	return &doc, nil
}

// Apply evaluates the document's mappings against src.
func (d *Document) Apply(src any) (map[string]any, error) {
	return d.mapper.Map(src, d.Mappings)
}
