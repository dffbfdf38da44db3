package fieldtree

import "sort"

// Kind tags the variants of Node.
type Kind int

const (
	KindScalar Kind = iota
	KindText
	KindList
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindRecord:
		return "record"
	default:
		return "scalar"
	}
}

// Node is a closed set of tree variants: Scalar, Text, List and Record.
type Node interface {
	Kind() Kind
	Value() any
	node()
}

// Scalar carries any non-string leaf (numbers, booleans, nil) verbatim.
type Scalar struct {
	V any
}

// Text is a translatable string leaf.
type Text string

type List []Node

// Record keeps field order stable so translated output mirrors its input.
type Record struct {
	Keys   []string
	Fields map[string]Node
}

func (Scalar) Kind() Kind { return KindScalar }
func (Text) Kind() Kind   { return KindText }
func (List) Kind() Kind   { return KindList }
func (Record) Kind() Kind { return KindRecord }

func (Scalar) node() {}
func (Text) node()   {}
func (List) node()   {}
func (Record) node() {}

func (s Scalar) Value() any { return s.V }
func (t Text) Value() any   { return string(t) }

func (l List) Value() any {
	out := make([]any, len(l))
	for i, item := range l {
		out[i] = item.Value()
	}
	return out
}

func (r Record) Value() any {
	out := make(map[string]any, len(r.Keys))
	for _, key := range r.Keys {
		if child, ok := r.Fields[key]; ok {
			out[key] = child.Value()
		}
	}
	return out
}

// NewRecord builds a record whose keys follow order.
func NewRecord(order []string, fields map[string]Node) Record {
	keys := make([]string, 0, len(order))
	for _, key := range order {
		if _, ok := fields[key]; ok {
			keys = append(keys, key)
		}
	}
	return Record{Keys: keys, Fields: fields}
}

// FromValue converts decoded JSON-like values into a tree. Map keys are
// ordered lexically.
func FromValue(value any) Node {
	switch typed := value.(type) {
	case Node:
		return typed
	case string:
		return Text(typed)
	case []string:
		list := make(List, len(typed))
		for i, item := range typed {
			list[i] = Text(item)
		}
		return list
	case []any:
		list := make(List, len(typed))
		for i, item := range typed {
			list[i] = FromValue(item)
		}
		return list
	case map[string]any:
		keys := make([]string, 0, len(typed))
		fields := make(map[string]Node, len(typed))
		for key, item := range typed {
			keys = append(keys, key)
			fields[key] = FromValue(item)
		}
		sort.Strings(keys)
		return Record{Keys: keys, Fields: fields}
	default:
		return Scalar{V: value}
	}
}
