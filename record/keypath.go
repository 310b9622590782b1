package record

import (
	"strconv"
	"strings"
)

// Lookup resolves a dot separated keypath such as "compound.names.0".
// Path segments name fields of records or index lists. A declared field
// that holds no value resolves to nil without error.
func (r *Record) Lookup(path string) (any, error) {
	var current any = r
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		fail := func(err error) error {
			return &FieldError{Schema: r.schema.name, Path: strings.Join(segments[:i+1], "."), Err: err}
		}
		switch v := current.(type) {
		case *Record:
			if _, ok := v.schema.Field(seg); !ok {
				return nil, fail(ErrUnknownField)
			}
			current = v.values[seg]
			if isEmpty(current) {
				return nil, nil
			}
		case []any:
			n, err := strconv.Atoi(seg)
			if err != nil {
				return nil, fail(ErrNotTraversable)
			}
			if n < 0 || n >= len(v) {
				return nil, fail(ErrIndexOutOfRange)
			}
			current = v[n]
		case []float64:
			n, err := strconv.Atoi(seg)
			if err != nil {
				return nil, fail(ErrNotTraversable)
			}
			if n < 0 || n >= len(v) {
				return nil, fail(ErrIndexOutOfRange)
			}
			current = v[n]
		default:
			return nil, fail(ErrNotTraversable)
		}
	}
	return cloneValue(current), nil
}
