package store

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Documents cross every backend as JSON, so operator evaluation happens on
// the decoded shape: objects are map[string]any, arrays []any, and all
// values JSON-normalized. The helpers here are shared by the memory,
// Redis, and SQL backends so operator semantics cannot drift between them.

// Normalize round-trips a Go value through JSON so it compares cleanly
// against decoded document content.
func Normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("store: encode value: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("store: decode value: %w", err)
	}
	return out, nil
}

// EncodeDoc marshals a typed value into a Doc.
func EncodeDoc(v any) (Doc, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("store: encode document: %w", err)
	}
	var doc Doc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("store: decode document: %w", err)
	}
	return doc, nil
}

// DecodeDoc unmarshals a Doc into the typed value pointed to by out.
func DecodeDoc(doc Doc, out any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encode document: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("store: decode document: %w", err)
	}
	return nil
}

func cloneDoc(doc Doc) (Doc, error) {
	return EncodeDoc(doc)
}

func docID(doc Doc) string {
	id, _ := doc[IDField].(string)
	return id
}

func asArray(v any) []any {
	arr, _ := v.([]any)
	return arr
}

func equalValues(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func containsElem(arr []any, elem any) bool {
	for _, e := range arr {
		if equalValues(e, elem) {
			return true
		}
	}
	return false
}

func (m Match) matches(elem any) (bool, error) {
	want, err := Normalize(m.Value)
	if err != nil {
		return false, err
	}
	if m.Field == "" {
		return equalValues(elem, want), nil
	}
	obj, ok := elem.(map[string]any)
	if !ok {
		return false, nil
	}
	return equalValues(obj[m.Field], want), nil
}

// Matches reports whether doc satisfies every member of the filter.
func (f Filter) Matches(doc Doc) (bool, error) {
	if f.IDs != nil {
		id := docID(doc)
		found := false
		for _, want := range f.IDs {
			if id == want {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}
	if f.Equals != nil {
		want, err := Normalize(f.Equals.Value)
		if err != nil {
			return false, err
		}
		if !equalValues(doc[f.Equals.Field], want) {
			return false, nil
		}
	}
	if f.Contains != nil {
		want, err := Normalize(f.Contains.Value)
		if err != nil {
			return false, err
		}
		if !containsElem(asArray(doc[f.Contains.Field]), want) {
			return false, nil
		}
	}
	return true, nil
}

// applyOps mutates doc in place according to ops, in order.
func applyOps(doc Doc, ops []Op) error {
	for _, op := range ops {
		switch op.kind {
		case opSet:
			for k, v := range op.fields {
				nv, err := Normalize(v)
				if err != nil {
					return err
				}
				doc[k] = nv
			}
		case opPush:
			nv, err := Normalize(op.value)
			if err != nil {
				return err
			}
			doc[op.field] = append(asArray(doc[op.field]), nv)
		case opAddToSet:
			nv, err := Normalize(op.value)
			if err != nil {
				return err
			}
			arr := asArray(doc[op.field])
			if !containsElem(arr, nv) {
				arr = append(arr, nv)
			}
			doc[op.field] = arr
		case opPull:
			arr := asArray(doc[op.field])
			kept := make([]any, 0, len(arr))
			for _, elem := range arr {
				hit, err := op.match.matches(elem)
				if err != nil {
					return err
				}
				if !hit {
					kept = append(kept, elem)
				}
			}
			doc[op.field] = kept
		default:
			return fmt.Errorf("store: unknown operator kind %d", op.kind)
		}
	}
	return nil
}

// uniqueValues extracts the string values of the collection's unique
// fields from doc. Empty values carry no uniqueness claim.
func uniqueValues(spec Collection, doc Doc) map[string]string {
	out := make(map[string]string, len(spec.Unique))
	for _, field := range spec.Unique {
		if s, ok := doc[field].(string); ok && s != "" {
			out[field] = s
		}
	}
	return out
}
