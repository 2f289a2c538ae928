package wire

// Kind discriminates the four event shapes the device can emit.
type Kind string

const (
	KindSessionReset Kind = "session_reset"
	KindArrive       Kind = "arrive"
	KindDepart       Kind = "depart"
	KindUnrecognized Kind = "unrecognized"
)

// Event is the typed form of one decoded line. Events are ephemeral:
// constructed per line, applied to the roster, and discarded.
type Event struct {
	Kind Kind

	// SecondaryID is the auxiliary token sent by the device (e.g. a
	// hardware tag id). It is parsed and stored but plays no part in
	// dedup — presence is keyed on Identity alone.
	SecondaryID string

	// Identity is the display name, the dedup key for presence.
	Identity string

	// Raw is the original line, kept for Unrecognized events so the
	// operator can see what the device actually sent.
	Raw string
}
