package candb

// Choices is an insertion-ordered mapping from a signal's raw integer
// value to an enumeration label, as produced by a VAL_ record.
type Choices struct {
	keys   []int64
	labels map[int64]string
}

// NewChoices builds an empty Choices table ready for Add.
func NewChoices() *Choices {
	return &Choices{labels: make(map[int64]string)}
}

// Add appends a raw -> label mapping, preserving insertion order. It
// overwrites silently if raw was already present, matching how a VAL_
// record with a repeated key would be re-parsed (last one wins) rather
// than returning a Duplicate error, which is reserved for node/message
// collisions in a Database.
func (c *Choices) Add(raw int64, label string) {
	if _, exists := c.labels[raw]; !exists {
		c.keys = append(c.keys, raw)
	}
	c.labels[raw] = label
}

// Len reports the number of entries.
func (c *Choices) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// LabelForRaw looks up the label for a raw value, in insertion order.
func (c *Choices) LabelForRaw(raw int64) (string, bool) {
	if c == nil {
		return "", false
	}
	label, ok := c.labels[raw]
	return label, ok
}

// RawForLabel reverse-looks-up the raw value for a label. The first
// matching entry in insertion order wins if labels were ever duplicated.
func (c *Choices) RawForLabel(label string) (int64, bool) {
	if c == nil {
		return 0, false
	}
	for _, raw := range c.keys {
		if c.labels[raw] == label {
			return raw, true
		}
	}
	return 0, false
}

// Each calls fn for every raw/label pair in insertion order.
func (c *Choices) Each(fn func(raw int64, label string)) {
	if c == nil {
		return
	}
	for _, raw := range c.keys {
		fn(raw, c.labels[raw])
	}
}
