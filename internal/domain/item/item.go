// Package item defines line identity and the value types shared by the cart
// and wishlist collections.
package item

import (
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// LineKey is the deterministic composite identity of a product + variant
// selection. Two selections with the same key are the same line.
type LineKey string

// Variants holds the chosen variant attributes of a selection,
// e.g. {"size": "M", "color": "red"}.
type Variants map[string]string

// ResolveKey derives the LineKey for a product and its chosen variant
// attributes. It is pure and order-independent: attribute names are
// normalized (trimmed, lowercased) and sorted before concatenation, so
// {color: red, size: M} and {size: M, color: red} resolve identically.
// Separator characters in names and values are escaped so crafted input
// cannot collide with a different selection.
func ResolveKey(productID string, variants Variants) LineKey {
	if len(variants) == 0 {
		return LineKey(escapeKeyPart(productID))
	}

	norm := make(map[string]string, len(variants))
	for name, value := range variants {
		norm[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}

	var b strings.Builder
	b.WriteString(escapeKeyPart(productID))
	for _, name := range slices.Sorted(maps.Keys(norm)) {
		b.WriteByte('|')
		b.WriteString(escapeKeyPart(name))
		b.WriteByte('=')
		b.WriteString(escapeKeyPart(norm[name]))
	}
	return LineKey(b.String())
}

var keyEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`, "=", `\=`)

func escapeKeyPart(s string) string {
	return keyEscaper.Replace(s)
}

// Line is one entry in a cart or wishlist collection: a unique
// product + variant selection with its catalog snapshot. The price is
// captured at add time and never re-fetched; later catalog price changes
// do not affect lines already in a collection.
type Line struct {
	LineKey   LineKey
	ProductID string
	Variants  Variants
	Name      string
	Price     decimal.Decimal
	Image     string
	Category  string
}

// NewLine builds a Line from a catalog snapshot, resolving its key from the
// product ID and chosen variants.
func NewLine(productID, name string, price decimal.Decimal, image, category string, variants Variants) Line {
	return Line{
		LineKey:   ResolveKey(productID, variants),
		ProductID: productID,
		Variants:  variants,
		Name:      name,
		Price:     price,
		Image:     image,
		Category:  category,
	}
}

// Key returns the line's identity within a collection.
func (l Line) Key() LineKey { return l.LineKey }

// Clone returns a copy that shares no mutable state with the receiver.
func (l Line) Clone() Line {
	l.Variants = maps.Clone(l.Variants)
	return l
}
