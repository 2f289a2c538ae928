package wire

import "strings"

// Wire grammar tokens. These are fixed by the device firmware and must
// match byte for byte.
const (
	sessionResetSignal = "NEW_SESSION"
	arrivePrefix       = "LOGIN:" // current firmware
	arrivePrefixLegacy = "LOG:"   // pre-2.x firmware, same semantics
	departPrefix       = "LOGOUT:"
)

// Classify maps one decoded line to an Event. It is total: malformed
// input yields an Unrecognized event, never an error.
//
// Prefixes are checked in order; LOGIN: must be tested before the
// legacy LOG: prefix because every LOGIN: line also starts with LOG.
func Classify(line string) Event {
	switch {
	case line == sessionResetSignal:
		return Event{Kind: KindSessionReset, Raw: line}
	case strings.HasPrefix(line, arrivePrefix):
		return splitFields(line, arrivePrefix, KindArrive)
	case strings.HasPrefix(line, arrivePrefixLegacy):
		return splitFields(line, arrivePrefixLegacy, KindArrive)
	case strings.HasPrefix(line, departPrefix):
		return splitFields(line, departPrefix, KindDepart)
	default:
		return Event{Kind: KindUnrecognized, Raw: line}
	}
}

// splitFields extracts the <secondaryId>,<identity> payload after a
// prefix. The separator is the first comma only; an identity containing
// further commas is kept whole. Both fields must be non-empty after
// trimming or the line is Unrecognized.
func splitFields(line, prefix string, kind Kind) Event {
	rest := line[len(prefix):]
	parts := strings.SplitN(rest, ",", 2)
	if len(parts) != 2 {
		return Event{Kind: KindUnrecognized, Raw: line}
	}
	secondary := strings.TrimSpace(parts[0])
	identity := strings.TrimSpace(parts[1])
	if secondary == "" || identity == "" {
		return Event{Kind: KindUnrecognized, Raw: line}
	}
	return Event{Kind: kind, SecondaryID: secondary, Identity: identity, Raw: line}
}
