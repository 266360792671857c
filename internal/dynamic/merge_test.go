package dynamic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergePreservesUntouchedKeys(t *testing.T) {
	existing := []byte(`{"a": 1, "b": 2, "stale_key": "kept"}`)
	res := NewResult()
	res.Changes["a"] = "updated"

	out, err := Merge(existing, res)
	require.NoError(t, err)

	props := Decode(out)
	assert.Equal(t, "updated", props["a"])
	assert.Equal(t, json.Number("2"), props["b"])
	// Keys no current field backs survive merges verbatim.
	assert.Equal(t, "kept", props["stale_key"])
}

func TestMergeClearsRemoveKeys(t *testing.T) {
	existing := []byte(`{"phone": "555-0101", "name": "Ann"}`)
	res := NewResult()
	res.Clears = []string{"phone"}

	out, err := Merge(existing, res)
	require.NoError(t, err)

	props := Decode(out)
	assert.NotContains(t, props, "phone")
	assert.Equal(t, "Ann", props["name"])
}

func TestMergeToleratesCorruptPriorState(t *testing.T) {
	res := NewResult()
	res.Changes["name"] = "Ann"

	for _, prior := range [][]byte{nil, []byte(""), []byte("{not json"), []byte(`[1,2]`)} {
		out, err := Merge(prior, res)
		require.NoError(t, err)
		assert.Equal(t, "Ann", Decode(out)["name"])
	}
}

func TestEncodeKeepsNonASCIILiteral(t *testing.T) {
	out, err := Encode(map[string]any{"diagnosis": "кариес <стадия 2>"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "кариес <стадия 2>")
	assert.NotContains(t, string(out), `\u003c`)
}

func TestDecodeEmptyAndRoundTripNumbers(t *testing.T) {
	assert.Empty(t, Decode(nil))

	// A number written once must survive an unrelated merge unchanged.
	out, err := Merge([]byte(`{"price": 1200.50}`), NewResult())
	require.NoError(t, err)
	assert.Contains(t, string(out), "1200.50")
}
