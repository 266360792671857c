package dynamic

import (
	"bytes"
	"encoding/json"
)

// Decode parses a stored property bag. Empty or malformed prior state is
// tolerated and comes back as an empty map; the bag favors availability over
// strictness. Numbers decode as json.Number to survive re-encoding intact.
func Decode(raw []byte) map[string]any {
	props := map[string]any{}
	if len(raw) == 0 {
		return props
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&props); err != nil {
		return map[string]any{}
	}
	return props
}

// Encode serializes a property bag without HTML escaping, so non-ASCII
// labels and values round-trip as literal characters, indented for
// inspectability.
func Encode(props map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(props); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Merge applies a coercion result on top of an existing bag: supplied keys
// overwrite, cleared keys disappear, everything else stays untouched,
// including keys no current field definition backs.
func Merge(existing []byte, res Result) ([]byte, error) {
	props := Decode(existing)
	for key, val := range res.Changes {
		props[key] = val
	}
	for _, key := range res.Clears {
		delete(props, key)
	}
	return Encode(props)
}
