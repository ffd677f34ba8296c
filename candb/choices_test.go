package candb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChoicesInsertionOrderPreserved(t *testing.T) {
	c := NewChoices()
	c.Add(2, "two")
	c.Add(0, "zero")
	c.Add(1, "one")

	var order []int64
	c.Each(func(raw int64, label string) { order = append(order, raw) })
	assert.Equal(t, []int64{2, 0, 1}, order)
}

func TestChoicesAddOverwritesSilently(t *testing.T) {
	c := NewChoices()
	c.Add(1, "first")
	c.Add(1, "second")
	assert.Equal(t, 1, c.Len())
	label, ok := c.LabelForRaw(1)
	assert.True(t, ok)
	assert.Equal(t, "second", label)
}

func TestChoicesRawForLabel(t *testing.T) {
	c := NewChoices()
	c.Add(0, "Disabled")
	c.Add(1, "Enabled")

	raw, ok := c.RawForLabel("Enabled")
	assert.True(t, ok)
	assert.Equal(t, int64(1), raw)

	_, ok = c.RawForLabel("Nope")
	assert.False(t, ok)
}

func TestNilChoicesAreSafeNoOps(t *testing.T) {
	var c *Choices
	assert.Equal(t, 0, c.Len())
	_, ok := c.LabelForRaw(0)
	assert.False(t, ok)
	_, ok = c.RawForLabel("x")
	assert.False(t, ok)
	c.Each(func(int64, string) { t.Fatal("should not be called") })
}
