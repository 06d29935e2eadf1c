package domain

// EnvelopeVersion is the only drag payload version understood by the engine.
const EnvelopeVersion = 1

// Envelope is the payload attached to a drag gesture.
// Exercise and Problem tie it to the session view it was minted from, so a drop
// that arrives after the problem changed is recognised as stale.
type Envelope struct {
	Version  int      `json:"v" mapstructure:"v"`
	Exercise string   `json:"exercise" mapstructure:"exercise"`
	Problem  string   `json:"problem" mapstructure:"problem"`
	Item     ItemID   `json:"item" mapstructure:"item"`
	Source   Location `json:"source" mapstructure:"source"`
}
