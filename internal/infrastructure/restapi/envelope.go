package restapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
)

// Shape names the envelope a response body was recognized as.
type Shape int

const (
	ShapeUnrecognized Shape = iota
	ShapeBareArray          // [ ... ]
	ShapeDataArray          // {data: [ ... ]}
	ShapeDataPlural         // {data: {<plural>: [ ... ], pagination?}}
	ShapePlural             // {<plural>: [ ... ], pagination?}
	ShapeDataObject         // {data: {id, ...}}
	ShapeDataSingular       // {data: {<singular>: {...}}}
	ShapeSingular           // {<singular>: {...}}
	ShapeBareObject         // {id, ...}
)

var shapeNames = map[Shape]string{
	ShapeUnrecognized: "unrecognized",
	ShapeBareArray:    "bare_array",
	ShapeDataArray:    "data_array",
	ShapeDataPlural:   "data_plural",
	ShapePlural:       "plural",
	ShapeDataObject:   "data_object",
	ShapeDataSingular: "data_singular",
	ShapeSingular:     "singular",
	ShapeBareObject:   "bare_object",
}

func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// Keys are the property names a resource is wrapped under.
type Keys struct {
	Singular string // e.g. "article"
	Plural   string // e.g. "articles"
}

// maxNesting bounds how many {data: {data: ...}} layers are unwrapped.
const maxNesting = 3

// List is a normalized list body. Shape is ShapeUnrecognized when no known
// envelope matched; Items is then empty.
type List[T domain.Resource] struct {
	Shape      Shape
	Items      []T
	Pagination *domain.Pagination
	Dropped    int // items discarded for a missing or repeated id
	TopKeys    []string
}

// DecodeList normalizes a list response. Only malformed JSON is an error;
// an unknown envelope yields ShapeUnrecognized.
func DecodeList[T domain.Resource](body []byte, keys Keys) (List[T], error) {
	var out List[T]

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return out, &domain.ParseError{Reason: "empty body"}
	}
	if !json.Valid(trimmed) {
		return out, &domain.ParseError{Reason: "invalid json"}
	}

	raws, pagination, shape, topKeys := matchList(trimmed, keys, 0)
	out.Shape = shape
	out.TopKeys = topKeys
	if shape == ShapeUnrecognized {
		return out, nil
	}

	items := make([]T, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for i, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return List[T]{Shape: shape}, &domain.ParseError{Reason: fmt.Sprintf("item %d", i), Err: err}
		}
		id := item.ResourceID()
		if id == "" {
			out.Dropped++
			continue
		}
		if _, dup := seen[id]; dup {
			out.Dropped++
			continue
		}
		seen[id] = struct{}{}
		items = append(items, item)
	}
	out.Items = items
	out.Pagination = pagination
	return out, nil
}

func matchList(body []byte, keys Keys, depth int) ([]json.RawMessage, *domain.Pagination, Shape, []string) {
	switch body[0] {
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(body, &arr); err != nil {
			return nil, nil, ShapeUnrecognized, nil
		}
		return arr, nil, ShapeBareArray, nil
	case '{':
	default:
		return nil, nil, ShapeUnrecognized, nil
	}

	top, ok := asObject(body)
	if !ok {
		return nil, nil, ShapeUnrecognized, nil
	}

	if data, ok := top["data"]; ok {
		if arr, ok := asArray(data); ok {
			return arr, paginationOf(top), ShapeDataArray, nil
		}
		if inner, ok := asObject(data); ok {
			if arr, ok := asArray(inner[keys.Plural]); ok && keys.Plural != "" {
				p := paginationOf(inner)
				if p == nil {
					p = paginationOf(top)
				}
				return arr, p, ShapeDataPlural, nil
			}
			if hasID(inner) {
				return []json.RawMessage{data}, nil, ShapeDataObject, nil
			}
			if _, nested := inner["data"]; nested && depth < maxNesting {
				return matchList(bytes.TrimSpace(data), keys, depth+1)
			}
		}
	}

	if keys.Plural != "" {
		if arr, ok := asArray(top[keys.Plural]); ok {
			return arr, paginationOf(top), ShapePlural, nil
		}
	}

	return nil, nil, ShapeUnrecognized, keysOf(top)
}

// DecodeItem normalizes a single-entity response.
func DecodeItem[T domain.Resource](body []byte, keys Keys) (T, Shape, error) {
	var zero T

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return zero, ShapeUnrecognized, &domain.ParseError{Reason: "empty body"}
	}
	top, ok := asObject(trimmed)
	if !ok {
		if !json.Valid(trimmed) {
			return zero, ShapeUnrecognized, &domain.ParseError{Reason: "invalid json"}
		}
		return zero, ShapeUnrecognized, &domain.ParseError{Reason: "expected an object", Err: domain.ErrUnrecognizedShape}
	}

	raw, shape, err := matchItem(trimmed, top, keys, 0)
	if err != nil {
		return zero, shape, err
	}

	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return zero, shape, &domain.ParseError{Reason: keys.Singular, Err: err}
	}
	if item.ResourceID() == "" {
		return zero, shape, &domain.ParseError{Reason: keys.Singular + " has no id", Err: domain.ErrUnrecognizedShape}
	}
	return item, shape, nil
}

func matchItem(body []byte, top map[string]json.RawMessage, keys Keys, depth int) (json.RawMessage, Shape, error) {
	if hasID(top) {
		return body, ShapeBareObject, nil
	}
	if keys.Singular != "" {
		if _, ok := asObject(top[keys.Singular]); ok {
			return top[keys.Singular], ShapeSingular, nil
		}
	}

	if data, ok := top["data"]; ok {
		inner, isObj := asObject(data)
		if !isObj || len(inner) == 0 {
			return nil, ShapeUnrecognized, &domain.ParseError{
				Reason: fmt.Sprintf("%s data is empty", keys.Singular),
				Err:    domain.ErrEmptyData,
			}
		}
		if keys.Singular != "" {
			if _, ok := asObject(inner[keys.Singular]); ok {
				return inner[keys.Singular], ShapeDataSingular, nil
			}
		}
		if hasID(inner) {
			return data, ShapeDataObject, nil
		}
		if _, nested := inner["data"]; nested && depth < maxNesting {
			return matchItem(bytes.TrimSpace(data), inner, keys, depth+1)
		}
	}

	return nil, ShapeUnrecognized, &domain.ParseError{
		Reason: fmt.Sprintf("no %s in response", keys.Singular),
		Err:    domain.ErrUnrecognizedShape,
	}
}

// DecodeValue extracts a non-entity value wrapped as {data: {<key>: v}},
// {<key>: v}, or, when key is empty, {data: v} or the body itself.
// A top-level "success": false is treated as a parse failure.
func DecodeValue[V any](body []byte, key string) (V, error) {
	var zero V

	top, ok := asObject(bytes.TrimSpace(body))
	if !ok {
		return zero, &domain.ParseError{Reason: "expected an object", Err: domain.ErrUnrecognizedShape}
	}

	var success bool
	if raw, ok := top["success"]; ok && json.Unmarshal(raw, &success) == nil && !success {
		return zero, &domain.ParseError{Reason: "server reported success=false"}
	}

	var raw json.RawMessage
	if key == "" {
		raw = body
		if data, ok := top["data"]; ok {
			if _, isObj := asObject(data); isObj {
				raw = data
			}
		}
	} else {
		if data, ok := asObject(top["data"]); ok {
			raw = data[key]
		}
		if len(raw) == 0 {
			raw = top[key]
		}
	}

	if len(raw) == 0 || string(raw) == "null" {
		return zero, &domain.ParseError{Reason: fmt.Sprintf("invalid %s data format", key), Err: domain.ErrUnrecognizedShape}
	}

	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, &domain.ParseError{Reason: key, Err: err}
	}
	return v, nil
}

// paginationOf reads a "pagination" object, or inline paging fields of the
// container itself (as in {invitations, total, page, limit, totalPages}).
func paginationOf(container map[string]json.RawMessage) *domain.Pagination {
	src, ok := container["pagination"]
	if !ok {
		_, hasTotal := container["total"]
		_, hasPages := container["totalPages"]
		if !hasTotal && !hasPages {
			return nil
		}
		b, err := json.Marshal(container)
		if err != nil {
			return nil
		}
		src = b
	}

	var p domain.Pagination
	if err := json.Unmarshal(src, &p); err != nil {
		return nil
	}
	return &p
}

func asObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	return m, true
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, false
	}
	return arr, true
}

func hasID(m map[string]json.RawMessage) bool {
	var id string
	if err := json.Unmarshal(m["id"], &id); err != nil {
		return false
	}
	return id != ""
}

func keysOf(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
