package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"mixprep/internal/failure"
	"mixprep/internal/fileutil"
	"mixprep/internal/layout"
)

const component = "metadata"

// Load reads and parses the metadata file at path. A missing file yields an
// error wrapping failure.ErrMissingFile.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, failure.MissingFile(component, "metadata file not found", path)
		}
		return nil, fmt.Errorf("read metadata %s: %w", path, err)
	}
	record, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return record, nil
}

// LoadTrack loads <dir>/<track>_METADATA.yaml.
func LoadTrack(dir string) (*Record, error) {
	return Load(layout.ForDir(dir).MetadataPath())
}

// Parse decodes a metadata document. Stems whose instrument field has an
// unusable shape are kept with InstrumentNone.
func Parse(data []byte) (*Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, failure.Wrap(failure.ErrSchema, component, "parse", "", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, failure.Wrap(failure.ErrSchema, component, "parse", "empty document", nil)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, failure.Wrap(failure.ErrSchema, component, "parse", "top level is not a mapping", nil)
	}

	record := &Record{root: root}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case keyStemDir:
			record.StemDir = scalarValue(value)
		case keyMixFilename:
			record.MixFilename = scalarValue(value)
		case keyStems:
			stems, err := parseStems(value)
			if err != nil {
				return nil, err
			}
			record.Stems = stems
		}
	}
	return record, nil
}

func parseStems(node *yaml.Node) ([]Stem, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, failure.Wrap(failure.ErrSchema, component, "parse", "stems is not a mapping", nil)
	}
	stems := make([]Stem, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		stem := Stem{ID: key.Value, key: key, value: value}
		if value.Kind == yaml.MappingNode {
			var raw struct {
				Filename   string    `yaml:"filename"`
				Instrument yaml.Node `yaml:"instrument"`
			}
			if err := value.Decode(&raw); err != nil {
				return nil, failure.Wrap(failure.ErrSchema, component, "parse", "stem "+stem.ID, err)
			}
			stem.Filename = raw.Filename
			stem.Instrument = parseInstrument(&raw.Instrument)
		}
		stems = append(stems, stem)
	}
	return stems, nil
}

func parseInstrument(node *yaml.Node) Instrument {
	switch {
	case node == nil || node.Kind == 0 || isNull(node):
		return Instrument{}
	case node.Kind == yaml.ScalarNode:
		return Plain(node.Value)
	case node.Kind == yaml.MappingNode:
		var raw struct {
			Name   string `yaml:"name"`
			Family string `yaml:"family"`
		}
		if err := node.Decode(&raw); err != nil {
			return Instrument{}
		}
		return Structured(raw.Name, raw.Family)
	default:
		return Instrument{}
	}
}

func scalarValue(node *yaml.Node) string {
	if node == nil || node.Kind != yaml.ScalarNode || isNull(node) {
		return ""
	}
	return node.Value
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

// Marshal encodes the record as YAML with two-space indentation, preserving
// key order.
func (r *Record) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r.Document()); err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the record to path atomically.
func (r *Record) Save(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	if err := fileutil.WriteAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("save metadata %s: %w", path, err)
	}
	return nil
}
