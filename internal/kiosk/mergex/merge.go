// Package mergex implements the recursive key-by-key merge used for the
// Settings record: nested objects are merged field-by-field instead of
// being replaced wholesale, so fields absent from the overlay survive.
package mergex

import "encoding/json"

// Merge returns a new map holding dst overlaid with src. Values present in
// src win, except that when both sides hold an object the two are merged
// recursively. Neither input map is modified.
func Merge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, sv := range src {
		sm, sourceIsMap := sv.(map[string]any)
		if !sourceIsMap {
			out[k] = sv
			continue
		}
		dm, targetIsMap := out[k].(map[string]any)
		if !targetIsMap {
			out[k] = sm
			continue
		}
		out[k] = Merge(dm, sm)
	}
	return out
}

// Apply merges overlay onto base by round-tripping both through JSON object
// form, then decodes the merged result into out. It lets typed structs use
// Merge without the callers repeating the marshalling dance.
func Apply(base, overlay, out any) error {
	bm, err := toMap(base)
	if err != nil {
		return err
	}
	om, err := toMap(overlay)
	if err != nil {
		return err
	}
	merged, err := json.Marshal(Merge(bm, om))
	if err != nil {
		return err
	}
	return json.Unmarshal(merged, out)
}

func toMap(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
