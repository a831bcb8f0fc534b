package types

// VectorMatch represents a single match from a vector search
type VectorMatch struct {
	ID       string
	Score    float32
	Metadata map[string]any
}

// MetadataString returns the string stored under key, or "" when the key is
// absent or holds another type.
func (m VectorMatch) MetadataString(key string) string {
	s, _ := m.Metadata[key].(string)
	return s
}
