package item

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKey_OrderIndependent(t *testing.T) {
	a := ResolveKey("p1", Variants{"color": "red", "size": "M"})
	b := ResolveKey("p1", Variants{"size": "M", "color": "red"})
	assert.Equal(t, a, b)
}

func TestResolveKey_Deterministic(t *testing.T) {
	v := Variants{"size": "XL", "color": "navy", "fit": "slim"}
	first := ResolveKey("p42", v)
	for range 10 {
		assert.Equal(t, first, ResolveKey("p42", v))
	}
}

func TestResolveKey_NormalizesNames(t *testing.T) {
	a := ResolveKey("p1", Variants{"Color": "red"})
	b := ResolveKey("p1", Variants{" color ": "red"})
	assert.Equal(t, a, b)
}

func TestResolveKey_DistinctSelections(t *testing.T) {
	tests := []struct {
		name   string
		idA    string
		varsA  Variants
		idB    string
		varsB  Variants
	}{
		{
			name:  "different product",
			idA:   "p1", varsA: Variants{"size": "M"},
			idB:   "p2", varsB: Variants{"size": "M"},
		},
		{
			name:  "different value",
			idA:   "p1", varsA: Variants{"size": "M"},
			idB:   "p1", varsB: Variants{"size": "L"},
		},
		{
			name:  "different attribute",
			idA:   "p1", varsA: Variants{"size": "M"},
			idB:   "p1", varsB: Variants{"color": "M"},
		},
		{
			name:  "variants vs none",
			idA:   "p1", varsA: Variants{"size": "M"},
			idB:   "p1", varsB: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, ResolveKey(tt.idA, tt.varsA), ResolveKey(tt.idB, tt.varsB))
		})
	}
}

func TestResolveKey_EscapesSeparators(t *testing.T) {
	// Without escaping these two would concatenate to the same string.
	a := ResolveKey("p1", Variants{"size": "M|color=red"})
	b := ResolveKey("p1", Variants{"size": "M", "color": "red"})
	assert.NotEqual(t, a, b)
}

func TestResolveKey_EmptyVariants(t *testing.T) {
	assert.Equal(t, LineKey("p1"), ResolveKey("p1", nil))
	assert.Equal(t, LineKey("p1"), ResolveKey("p1", Variants{}))
}

func TestNewLine_ResolvesKey(t *testing.T) {
	l := NewLine("p1", "Tee", decimal.RequireFromString("19.99"), "tee.jpg", "apparel", Variants{"size": "M"})
	assert.Equal(t, ResolveKey("p1", Variants{"size": "M"}), l.Key())
	assert.Equal(t, "Tee", l.Name)
}

func TestLine_CloneIsolatesVariants(t *testing.T) {
	l := NewLine("p1", "Tee", decimal.RequireFromString("19.99"), "tee.jpg", "apparel", Variants{"size": "M"})
	c := l.Clone()
	require.NotNil(t, c.Variants)

	c.Variants["size"] = "XXL"
	assert.Equal(t, "M", l.Variants["size"])
}
