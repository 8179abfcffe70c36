// Package group partitions slices into ordered, named buckets.
//
// Grouping is a stable partition: keys appear in the order they are first
// seen and items keep their input order inside each group. Every input item
// lands in exactly one group.
package group

import (
	"fmt"
	"iter"
	"reflect"
	"strings"
)

// Undefined is the key used by ByField when an item has no value for the
// requested field.
const Undefined = "undefined"

// Group is one bucket of a Groups result.
type Group[T any] struct {
	Key   string
	Items []T
}

// Groups is an insertion-ordered mapping from key to items.
type Groups[T any] struct {
	keys  []string
	index map[string]int
	items [][]T
}

func newGroups[T any]() *Groups[T] {
	return &Groups[T]{index: make(map[string]int)}
}

func (g *Groups[T]) add(key string, item T) {
	i, ok := g.index[key]
	if !ok {
		i = len(g.keys)
		g.index[key] = i
		g.keys = append(g.keys, key)
		g.items = append(g.items, nil)
	}
	g.items[i] = append(g.items[i], item)
}

// By groups data by the key computed for each item.
func By[T any](key func(T) string, data []T) *Groups[T] {
	g := newGroups[T]()
	for _, item := range data {
		g.add(key(item), item)
	}
	return g
}

// ByField groups data by the named field. The field is resolved once from
// T's type: struct fields match by name (case-insensitive) or by their yaml
// or json tag, and maps with string keys are indexed directly. Items without
// a value for the field are grouped under Undefined.
func ByField[T any](field string, data []T) *Groups[T] {
	return By(fieldKey[T](field), data)
}

// Map returns a new Groups with the same keys in the same order and every
// item transformed by fn.
func Map[T, U any](g *Groups[T], fn func(T) U) *Groups[U] {
	out := newGroups[U]()
	for i, k := range g.keys {
		for _, item := range g.items[i] {
			out.add(k, fn(item))
		}
	}
	return out
}

// Len returns the number of groups.
func (g *Groups[T]) Len() int {
	return len(g.keys)
}

// Keys returns the group keys in first-seen order.
func (g *Groups[T]) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Get returns the items grouped under key.
func (g *Groups[T]) Get(key string) ([]T, bool) {
	i, ok := g.index[key]
	if !ok {
		return nil, false
	}
	return g.items[i], true
}

// All iterates over the groups in key order.
func (g *Groups[T]) All() iter.Seq2[string, []T] {
	return func(yield func(string, []T) bool) {
		for i, k := range g.keys {
			if !yield(k, g.items[i]) {
				return
			}
		}
	}
}

// Groups returns the buckets as a slice, which is what templates range over.
func (g *Groups[T]) Groups() []Group[T] {
	out := make([]Group[T], len(g.keys))
	for i, k := range g.keys {
		out[i] = Group[T]{Key: k, Items: g.items[i]}
	}
	return out
}

// fieldKey builds the key function for ByField.
func fieldKey[T any](field string) func(T) string {
	typ := reflect.TypeFor[T]()
	base := typ
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	switch base.Kind() {
	case reflect.Struct:
		sf, ok := lookupField(base, field)
		if !ok {
			return func(T) string { return Undefined }
		}
		return func(item T) string {
			v, ok := deref(reflect.ValueOf(&item).Elem())
			if !ok {
				return Undefined
			}
			fv, err := v.FieldByIndexErr(sf.Index)
			if err != nil {
				return Undefined
			}
			return keyString(fv)
		}
	case reflect.Map:
		if base.Key().Kind() != reflect.String {
			return func(T) string { return Undefined }
		}
		mk := reflect.ValueOf(field).Convert(base.Key())
		return func(item T) string {
			v, ok := deref(reflect.ValueOf(&item).Elem())
			if !ok {
				return Undefined
			}
			mv := v.MapIndex(mk)
			if !mv.IsValid() {
				return Undefined
			}
			return keyString(mv)
		}
	case reflect.Interface:
		// Resolved per item, since the dynamic type can vary.
		return func(item T) string {
			v, ok := deref(reflect.ValueOf(&item).Elem())
			if !ok {
				return Undefined
			}
			return dynamicKey(v, field)
		}
	default:
		return func(T) string { return Undefined }
	}
}

func dynamicKey(v reflect.Value, field string) string {
	switch v.Kind() {
	case reflect.Struct:
		sf, ok := lookupField(v.Type(), field)
		if !ok {
			return Undefined
		}
		fv, err := v.FieldByIndexErr(sf.Index)
		if err != nil {
			return Undefined
		}
		return keyString(fv)
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return Undefined
		}
		mv := v.MapIndex(reflect.ValueOf(field).Convert(v.Type().Key()))
		if !mv.IsValid() {
			return Undefined
		}
		return keyString(mv)
	default:
		return Undefined
	}
}

func lookupField(t reflect.Type, name string) (reflect.StructField, bool) {
	if sf, ok := t.FieldByName(name); ok && sf.IsExported() {
		return sf, true
	}
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if strings.EqualFold(sf.Name, name) || tagName(sf, "yaml") == name || tagName(sf, "json") == name {
			return sf, true
		}
	}
	return reflect.StructField{}, false
}

func tagName(sf reflect.StructField, key string) string {
	tag, ok := sf.Tag.Lookup(key)
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// deref follows pointers and interfaces. It reports false on nil.
func deref(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}

func keyString(v reflect.Value) string {
	if !v.IsValid() {
		return Undefined
	}
	if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
		return Undefined
	}
	if !v.CanInterface() {
		return Undefined
	}
	switch x := v.Interface().(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	d, ok := deref(v)
	if !ok {
		return Undefined
	}
	if d.Kind() == reflect.String {
		return d.String()
	}
	return fmt.Sprint(d.Interface())
}
