// Package content models block payloads as a tagged union keyed by block type.
// Known types decode into typed structs; anything else is edited as a raw map.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

type BlockType string

const (
	BlockTypeHero         BlockType = "hero"
	BlockTypeFeatures     BlockType = "features"
	BlockTypeTestimonials BlockType = "testimonials"
	BlockTypeCTA          BlockType = "cta"
	BlockTypeGallery      BlockType = "gallery"
	BlockTypeText         BlockType = "text"
	BlockTypePricing      BlockType = "pricing"
	BlockTypeWorkouts     BlockType = "workouts"
	BlockTypeCustom       BlockType = "custom"
)

// BlockTypes lists the closed set of block types in display order.
var BlockTypes = []BlockType{
	BlockTypeHero,
	BlockTypeFeatures,
	BlockTypeTestimonials,
	BlockTypeCTA,
	BlockTypeGallery,
	BlockTypeText,
	BlockTypePricing,
	BlockTypeWorkouts,
	BlockTypeCustom,
}

// ParseBlockType reports whether s names a known block type.
func ParseBlockType(s string) (BlockType, bool) {
	for _, t := range BlockTypes {
		if string(t) == s {
			return t, true
		}
	}

	return BlockType(s), false
}

// Label is the human-readable name given to a new block of type t.
func (t BlockType) Label() string {
	switch t {
	case BlockTypeCTA:
		return "Call To Action"
	case "":
		return "Block"
	}

	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Content is the payload of one block.
type Content interface {
	Type() BlockType
}

// Decode parses raw into the variant for t. Unknown types, and known types whose
// fields have unexpected JSON types, decode to Custom so that every key is still
// editable. Only content that is not a JSON object is an error.
func Decode(t BlockType, raw []byte) (Content, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		raw = []byte("{}")
	}

	var fields map[string]any
	if err := unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode %s content: %w", t, err)
	}

	var c Content
	switch t {
	case BlockTypeHero:
		c = &Hero{}
	case BlockTypeFeatures:
		c = &Features{}
	case BlockTypeTestimonials:
		c = &Testimonials{}
	case BlockTypeCTA:
		c = &CTA{}
	case BlockTypeGallery:
		c = &Gallery{}
	case BlockTypeText:
		c = &Text{}
	case BlockTypePricing:
		c = &Pricing{}
	case BlockTypeWorkouts:
		c = &Workouts{}
	default:
		if fields == nil {
			fields = make(map[string]any)
		}
		return &Custom{Fields: fields}, nil
	}

	if fields == nil {
		fields = make(map[string]any)
	}
	if err := unmarshal(raw, c); err != nil {
		return &Custom{Fields: fields}, nil
	}
	setExtra(c, unknownKeys(c, fields))

	return c, nil
}

// Encode serializes c, merging back any keys the typed variant did not know about.
func Encode(c Content) ([]byte, error) {
	if c == nil {
		return []byte("{}"), nil
	}

	if custom, ok := c.(*Custom); ok {
		if custom.Fields == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(custom.Fields)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}

	extra := getExtra(c)
	if len(extra) == 0 {
		return data, nil
	}

	var fields map[string]any
	if err := unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, known := fields[k]; !known {
			fields[k] = v
		}
	}

	return json.Marshal(fields)
}

// Merge applies the edited content c over the stored content raw. Keys that c does
// not carry are kept, also inside nested objects and list items, which are matched
// by index. Custom content carries every key and replaces raw.
func Merge(raw []byte, c Content) ([]byte, error) {
	data, err := Encode(c)
	if err != nil {
		return nil, err
	}
	if _, ok := c.(*Custom); ok || c == nil {
		return data, nil
	}

	var base map[string]any
	if len(bytes.TrimSpace(raw)) == 0 || unmarshal(raw, &base) != nil || base == nil {
		return data, nil
	}

	var edit map[string]any
	if err := unmarshal(data, &edit); err != nil {
		return nil, err
	}

	return json.Marshal(mergeValue(base, edit))
}

func mergeValue(base, edit any) any {
	switch e := edit.(type) {
	case map[string]any:
		b, ok := base.(map[string]any)
		if !ok {
			return e
		}
		for k, v := range e {
			b[k] = mergeValue(b[k], v)
		}
		return b
	case []any:
		b, ok := base.([]any)
		if !ok {
			return e
		}
		for i := range e {
			if i < len(b) {
				e[i] = mergeValue(b[i], e[i])
			}
		}
		return e
	}

	return edit
}

// unmarshal keeps numbers as json.Number so untouched values re-encode byte for byte.
func unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

var knownKeysCache sync.Map // reflect.Type -> map[string]struct{}

func knownKeys(t reflect.Type) map[string]struct{} {
	if keys, ok := knownKeysCache.Load(t); ok {
		return keys.(map[string]struct{})
	}

	keys := make(map[string]struct{})
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name := strings.Split(tag, ",")[0]
		if name == "" || name == "-" {
			continue
		}
		keys[name] = struct{}{}
	}
	knownKeysCache.Store(t, keys)

	return keys
}

func unknownKeys(c Content, fields map[string]any) map[string]any {
	keys := knownKeys(reflect.TypeOf(c).Elem())
	var extra map[string]any
	for k, v := range fields {
		if _, ok := keys[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}

	return extra
}

func extraField(c Content) reflect.Value {
	return reflect.ValueOf(c).Elem().FieldByName("Extra")
}

func setExtra(c Content, extra map[string]any) {
	if f := extraField(c); f.IsValid() && f.CanSet() {
		f.Set(reflect.ValueOf(extra))
	}
}

func getExtra(c Content) map[string]any {
	f := extraField(c)
	if !f.IsValid() || f.IsNil() {
		return nil
	}

	return f.Interface().(map[string]any)
}
