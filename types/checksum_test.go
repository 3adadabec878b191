package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	cs := ComputeChecksum([]byte("guest code"))

	parsed, err := ParseChecksum(cs.String())
	require.NoError(t, err)
	assert.Equal(t, cs, parsed)

	bz, err := json.Marshal(cs)
	require.NoError(t, err)
	assert.Equal(t, `"`+cs.String()+`"`, string(bz))

	var decoded Checksum
	require.NoError(t, json.Unmarshal(bz, &decoded))
	assert.Equal(t, cs, decoded)

	_, err = ParseChecksum("abcd")
	assert.ErrorContains(t, err, "got 2 bytes for checksum")
	_, err = ParseChecksum("zz")
	assert.ErrorContains(t, err, "invalid checksum")
}
