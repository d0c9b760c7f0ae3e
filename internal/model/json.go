package model

import (
	"encoding/json"
	"reflect"
	"strings"
)

// The profile file format is forward compatible: fields this version does not
// understand are captured on load and re-emitted on save. The helpers below
// implement that for each serialized type.

// knownFields returns the set of json field names declared on T.
func knownFields[T any]() map[string]struct{} {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	fields := make(map[string]struct{}, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		tag := rt.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = rt.Field(i).Name
		}
		fields[name] = struct{}{}
	}
	return fields
}

// marshalWithExtra serializes known and merges in any retained unknown fields.
// Known fields win on collision.
func marshalWithExtra(known any, extra map[string]json.RawMessage) ([]byte, error) {
	base, err := json.Marshal(known)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// unmarshalWithExtra decodes data into known and returns any fields outside
// the known set, or nil when there are none.
func unmarshalWithExtra(data []byte, known any, set map[string]struct{}) (map[string]json.RawMessage, error) {
	if err := json.Unmarshal(data, known); err != nil {
		return nil, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}

	var extra map[string]json.RawMessage
	for k, v := range all {
		if _, ok := set[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}
	return extra, nil
}
