package mode

import "strings"

// Mode decides, per turn, whether to stream a plain completion or perform a
// grounded call with retrieval attached.
type Mode string

const (
	Streaming Mode = "streaming"
	Grounded  Mode = "grounded"
)

// ValidSelector reports whether a store selector actually names a store.
// A whitespace-only selector means "no store" everywhere, not just at one
// boundary.
func ValidSelector(storeSelector string) bool {
	return strings.TrimSpace(storeSelector) != ""
}

func Select(storeSelector string) Mode {
	if ValidSelector(storeSelector) {
		return Grounded
	}
	return Streaming
}
