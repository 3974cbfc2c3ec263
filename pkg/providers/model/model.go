// Package model defines the normalized descriptor that every provider
// produces for a discoverable model.
package model

// Descriptor describes one model offered by a provider.
// Descriptors are values; a discovery result is never mutated after it is
// returned. Names are unique within a well-behaved backend's result, but
// duplicates reported by the backend are passed through unchanged.
type Descriptor struct {
	Name      string `json:"name"`      // Backend-native identifier.
	Label     string `json:"label"`     // Human-readable label.
	Provider  string `json:"provider"`  // Identity name of the owning provider.
	MaxTokens int    `json:"maxTokens"` // Maximum context tokens, always > 0.
}

// Find returns the first descriptor in list with the given name.
func Find(list []Descriptor, name string) (Descriptor, bool) {
	for _, d := range list {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Names returns the names of all descriptors in list, in order.
func Names(list []Descriptor) []string {
	names := make([]string, len(list))
	for i, d := range list {
		names[i] = d.Name
	}
	return names
}
