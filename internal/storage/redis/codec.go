package redis

import (
	"maps"
	"slices"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-cart/internal/domain/cart"
	"github.com/xenking/storefront-cart/internal/domain/item"
)

// Serialization format: an ordered JSON array of line-item records, indented
// so persisted payloads stay human-diffable. Prices are encoded as strings to
// keep exact decimal values across round-trips. Cart lines carry a quantity
// field; wishlist entries omit it.

const codecIndent = 2

func encodeCartLines(lines []cart.Line) []byte {
	var e jx.Encoder
	e.SetIdent(codecIndent)
	e.ArrStart()
	for _, l := range lines {
		encodeLine(&e, l.Line, l.Quantity)
	}
	e.ArrEnd()
	return e.Bytes()
}

func encodeWishlistEntries(entries []item.Line) []byte {
	var e jx.Encoder
	e.SetIdent(codecIndent)
	e.ArrStart()
	for _, l := range entries {
		encodeLine(&e, l, 0)
	}
	e.ArrEnd()
	return e.Bytes()
}

func encodeLine(e *jx.Encoder, l item.Line, quantity int) {
	e.ObjStart()
	e.FieldStart("key")
	e.Str(string(l.LineKey))
	e.FieldStart("product_id")
	e.Str(l.ProductID)
	if len(l.Variants) > 0 {
		e.FieldStart("variants")
		e.ObjStart()
		// Sorted so the persisted payload is byte-stable across writes.
		for _, name := range slices.Sorted(maps.Keys(l.Variants)) {
			e.FieldStart(name)
			e.Str(l.Variants[name])
		}
		e.ObjEnd()
	}
	e.FieldStart("name")
	e.Str(l.Name)
	e.FieldStart("price")
	e.Str(l.Price.String())
	e.FieldStart("image")
	e.Str(l.Image)
	e.FieldStart("category")
	e.Str(l.Category)
	if quantity > 0 {
		e.FieldStart("quantity")
		e.Int(quantity)
	}
	e.ObjEnd()
}

func decodeCartLines(data []byte) ([]cart.Line, error) {
	var lines []cart.Line
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		l, qty, err := decodeLine(d)
		if err != nil {
			return err
		}
		lines = append(lines, cart.Line{Line: l, Quantity: qty})
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode cart lines")
	}
	return lines, nil
}

func decodeWishlistEntries(data []byte) ([]item.Line, error) {
	var entries []item.Line
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		l, _, err := decodeLine(d)
		if err != nil {
			return err
		}
		entries = append(entries, l)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode wishlist entries")
	}
	return entries, nil
}

func decodeLine(d *jx.Decoder) (item.Line, int, error) {
	var (
		l   item.Line
		qty int
	)
	err := d.Obj(func(d *jx.Decoder, field string) error {
		switch field {
		case "key":
			s, err := d.Str()
			l.LineKey = item.LineKey(s)
			return err
		case "product_id":
			s, err := d.Str()
			l.ProductID = s
			return err
		case "variants":
			l.Variants = make(item.Variants)
			return d.Obj(func(d *jx.Decoder, name string) error {
				v, err := d.Str()
				l.Variants[name] = v
				return err
			})
		case "name":
			s, err := d.Str()
			l.Name = s
			return err
		case "price":
			s, err := d.Str()
			if err != nil {
				return err
			}
			if l.Price, err = decimal.NewFromString(s); err != nil {
				return errors.Wrap(err, "price")
			}
			return nil
		case "image":
			s, err := d.Str()
			l.Image = s
			return err
		case "category":
			s, err := d.Str()
			l.Category = s
			return err
		case "quantity":
			n, err := d.Int()
			qty = n
			return err
		default:
			return d.Skip()
		}
	})
	return l, qty, err
}
