package metadata

import (
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	keyStemDir     = "stem_dir"
	keyMixFilename = "mix_filename"
	keyStems       = "stems"
	keyFilename    = "filename"
	keyInstrument  = "instrument"
)

// Stem describes one stem entry of a metadata record.
type Stem struct {
	ID         string
	Filename   string
	Instrument Instrument

	key   *yaml.Node
	value *yaml.Node
}

// Record is the in-memory form of a track's metadata file. Stems keep the
// insertion order of the source mapping. Records are never edited in place;
// Retain produces trimmed copies.
type Record struct {
	StemDir     string
	MixFilename string
	Stems       []Stem

	root *yaml.Node
}

// StemIDs returns the stem identifiers in record order.
func (r *Record) StemIDs() []string {
	ids := make([]string, len(r.Stems))
	for i, stem := range r.Stems {
		ids[i] = stem.ID
	}
	return ids
}

// Stem looks up a stem by identifier.
func (r *Record) Stem(id string) (Stem, bool) {
	for _, stem := range r.Stems {
		if stem.ID == id {
			return stem, true
		}
	}
	return Stem{}, false
}

// HasStem reports whether id is one of the record's stems.
func (r *Record) HasStem(id string) bool {
	_, ok := r.Stem(id)
	return ok
}

// InstrumentNames lists one label per stem that declares one, in stem order.
// The list is not de-duplicated and is not aligned with StemIDs when some
// stems lack an instrument.
func (r *Record) InstrumentNames() []string {
	names := make([]string, 0, len(r.Stems))
	for _, stem := range r.Stems {
		if label, ok := stem.Instrument.Label(); ok {
			names = append(names, label)
		}
	}
	return names
}

// StemPath resolves a stem's audio file inside the track directory.
func (r *Record) StemPath(trackDir string, stem Stem) string {
	return filepath.Join(trackDir, r.StemDir, stem.Filename)
}

// MixPath resolves the declared mix file inside the track directory.
func (r *Record) MixPath(trackDir string) string {
	return filepath.Join(trackDir, r.MixFilename)
}

// Retain returns a copy of the record holding only the stems whose identifiers
// are listed, in original order. Every other field is carried over unchanged.
func (r *Record) Retain(ids []string) *Record {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	out := &Record{
		StemDir:     r.StemDir,
		MixFilename: r.MixFilename,
		Stems:       make([]Stem, 0, len(ids)),
		root:        r.root,
	}
	for _, stem := range r.Stems {
		if _, ok := keep[stem.ID]; ok {
			out.Stems = append(out.Stems, stem)
		}
	}
	return out
}

// Document renders the record as a YAML mapping node. Fields other than stems
// are copied from the parsed source in their original order; the stems mapping
// is rebuilt from the record's stems.
func (r *Record) Document() *yaml.Node {
	stems := r.stemsNode()
	if r.root == nil {
		root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		root.Content = append(root.Content,
			scalar(keyStemDir), scalar(r.StemDir),
			scalar(keyMixFilename), scalar(r.MixFilename),
			scalar(keyStems), stems,
		)
		return root
	}

	root := &yaml.Node{
		Kind:        yaml.MappingNode,
		Tag:         r.root.Tag,
		Style:       r.root.Style,
		HeadComment: r.root.HeadComment,
		FootComment: r.root.FootComment,
	}
	replaced := false
	for i := 0; i+1 < len(r.root.Content); i += 2 {
		key, value := r.root.Content[i], r.root.Content[i+1]
		if key.Value == keyStems {
			value = stems
			replaced = true
		}
		root.Content = append(root.Content, key, value)
	}
	if !replaced {
		root.Content = append(root.Content, scalar(keyStems), stems)
	}
	return root
}

func (r *Record) stemsNode() *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, stem := range r.Stems {
		key := stem.key
		if key == nil {
			key = scalar(stem.ID)
		}
		value := stem.value
		if value == nil {
			value = stemNode(stem)
		}
		node.Content = append(node.Content, key, value)
	}
	return node
}

func stemNode(stem Stem) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	node.Content = append(node.Content, scalar(keyFilename), scalar(stem.Filename))
	switch stem.Instrument.Kind {
	case InstrumentPlain:
		node.Content = append(node.Content, scalar(keyInstrument), scalar(stem.Instrument.Name))
	case InstrumentStructured:
		inst := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		inst.Content = append(inst.Content,
			scalar("name"), scalar(stem.Instrument.Name),
			scalar("family"), scalar(stem.Instrument.Family),
		)
		node.Content = append(node.Content, scalar(keyInstrument), inst)
	}
	return node
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
