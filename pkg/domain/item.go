package domain

// ItemID identifies a draggable item inside a problem.
type ItemID string

// ZoneID identifies a drop target (a category bin, a definition slot, the connector gap).
type ZoneID string

// Item kinds used by the bundled catalog. The engine does not interpret them.
const (
	KindConcept     = "concept"
	KindSentence    = "sentence"
	KindClause      = "clause"
	KindConnector   = "connector"
	KindPunctuation = "punctuation"
)

// Item is an immutable draggable unit of content.
type Item struct {
	ID   ItemID `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
	// Target is the zone this item belongs to. Unused by set and ordered answers.
	Target      ZoneID `json:"target,omitempty" yaml:"target,omitempty"`
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Zone is a drop target.
type Zone struct {
	ID     ZoneID `json:"id" yaml:"id"`
	Label  string `json:"label" yaml:"label"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// LocationKind names the container an item is dragged from or dropped onto.
type LocationKind string

const (
	LocationBank LocationKind = "bank"
	LocationZone LocationKind = "zone"
)

// SequenceZone is the zone ID of the build area in ordered-construction exercises.
const SequenceZone ZoneID = "sequence"

// Location is either the source bank or a specific zone.
type Location struct {
	Kind LocationKind `json:"kind" mapstructure:"kind"`
	Zone ZoneID       `json:"zone,omitempty" mapstructure:"zone"`
}

// Bank is the location of the source pool.
func Bank() Location { return Location{Kind: LocationBank} }

// InZone is the location of the given zone.
func InZone(id ZoneID) Location { return Location{Kind: LocationZone, Zone: id} }

// Sequence is the location of the build area.
func Sequence() Location { return InZone(SequenceZone) }

// IsBank reports whether the location is the source pool.
func (l Location) IsBank() bool { return l.Kind == LocationBank }

func (l Location) String() string {
	if l.Kind == LocationZone {
		return string(l.Zone)
	}
	return string(l.Kind)
}
