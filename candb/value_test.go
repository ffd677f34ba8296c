package candb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueConstructorsAndPredicates(t *testing.T) {
	i := Int(42)
	assert.True(t, i.IsInt())
	assert.False(t, i.IsFloat())
	assert.False(t, i.IsLabel())
	assert.Equal(t, int64(42), i.Int64())
	assert.Equal(t, float64(42), i.Float64())

	f := Float(3.5)
	assert.True(t, f.IsFloat())
	assert.Equal(t, int64(3), f.Int64())
	assert.Equal(t, 3.5, f.Float64())

	l := Label("Enabled")
	assert.True(t, l.IsLabel())
	assert.Equal(t, "Enabled", l.LabelString())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Int(1).Equal(Int(1)))
	assert.False(t, Int(1).Equal(Int(2)))
	assert.False(t, Int(1).Equal(Float(1)))
	assert.True(t, Label("x").Equal(Label("x")))
	assert.True(t, Float(1.5).Equal(Float(1.5)))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "42", Int(42).String())
	assert.Equal(t, "Enabled", Label("Enabled").String())
	assert.Equal(t, "0.0", Float(0).String())
	assert.Equal(t, "3.2", Float(3.2).String())
	assert.Equal(t, "250.55", Float(250.55).String())
}
