package domain

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Fields is the serializable state of one stateful node: field name -> value.
type Fields map[string]any

// Name returns the reserved name field, if present.
func (f Fields) Name() (string, bool) {
	v, ok := f[NameField]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// EncodeRecord flattens a state record (a struct or pointer to struct with
// mapstructure tags) into Fields and stamps the node name under NameField.
func EncodeRecord(name string, record any) (Fields, error) {
	out := Fields{}
	if record != nil {
		var m map[string]any
		if err := mapstructure.Decode(record, &m); err != nil {
			return nil, fmt.Errorf("failed to encode state record: %w", err)
		}
		for k, v := range m {
			out[k] = v
		}
	}
	out[NameField] = name
	return out, nil
}

// DecodeRecord copies Fields into a state record pointer.
// Weak typing absorbs the number widening that JSON storage introduces.
// Maps, slices and pointers in the record are replaced, never merged into.
func DecodeRecord(fields Fields, record any) error {
	if record == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Result:           record,
	})
	if err != nil {
		return fmt.Errorf("failed to build record decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(fields)); err != nil {
		return fmt.Errorf("failed to decode state record: %w", err)
	}
	return nil
}

// StagedRecord is a state record decoded into a copy of the live one,
// waiting to replace it.
type StagedRecord struct {
	target reflect.Value
	prev   reflect.Value
	next   reflect.Value
}

// StageRecord decodes fields into a copy of record, leaving record itself
// untouched until Commit. A nil record stages nothing.
func StageRecord(fields Fields, record any) (*StagedRecord, error) {
	rv := reflect.ValueOf(record)
	if !rv.IsValid() {
		return &StagedRecord{}, nil
	}
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, fmt.Errorf("state record must be a non-nil pointer, got %T", record)
	}

	target := rv.Elem()
	prev := reflect.New(target.Type()).Elem()
	prev.Set(target)
	next := reflect.New(target.Type())
	next.Elem().Set(target)
	if err := DecodeRecord(fields, next.Interface()); err != nil {
		return nil, err
	}
	return &StagedRecord{target: target, prev: prev, next: next.Elem()}, nil
}

// Commit writes the decoded copy into the live record.
func (s *StagedRecord) Commit() {
	if s.target.IsValid() {
		s.target.Set(s.next)
	}
}

// Revert puts back the value the live record had when it was staged.
func (s *StagedRecord) Revert() {
	if s.target.IsValid() {
		s.target.Set(s.prev)
	}
}
