package metadata

import "mixprep/internal/textutil"

// InstrumentKind tags which shape an instrument field had in the metadata file.
type InstrumentKind int

const (
	// InstrumentNone means the field was absent, null, or of an unusable shape.
	InstrumentNone InstrumentKind = iota
	// InstrumentPlain is a bare string label.
	InstrumentPlain
	// InstrumentStructured is a mapping carrying name and family.
	InstrumentStructured
)

// Instrument is the resolved form of a stem's instrument field, which may be a
// plain string or a {name, family} mapping.
type Instrument struct {
	Kind   InstrumentKind
	Name   string
	Family string
}

// Plain builds a plain string instrument label.
func Plain(name string) Instrument {
	return Instrument{Kind: InstrumentPlain, Name: name}
}

// Structured builds a {name, family} instrument.
func Structured(name, family string) Instrument {
	return Instrument{Kind: InstrumentStructured, Name: name, Family: family}
}

// Label returns the instrument name a track listing reports. Plain labels are
// returned verbatim, including the empty string. Structured entries contribute
// only when their name is non-empty.
func (i Instrument) Label() (string, bool) {
	switch i.Kind {
	case InstrumentPlain:
		return i.Name, true
	case InstrumentStructured:
		if i.Name != "" {
			return i.Name, true
		}
	}
	return "", false
}

// Normalized returns the whitelist comparison form of the instrument. Absent
// instruments and structured entries without a name normalize to "".
func (i Instrument) Normalized() string {
	if i.Kind == InstrumentNone {
		return ""
	}
	return textutil.NormalizeLabel(i.Name)
}
