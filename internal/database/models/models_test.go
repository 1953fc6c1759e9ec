package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArrayRoundTrip(t *testing.T) {
	in := StringArray{"gluten", "nuts"}

	value, err := in.Value()
	require.NoError(t, err)

	var out StringArray
	require.NoError(t, out.Scan(value))
	assert.Equal(t, in, out)
}

func TestStringArrayNil(t *testing.T) {
	var a StringArray
	value, err := a.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)

	var out StringArray
	require.NoError(t, out.Scan(nil))
	assert.Empty(t, out)
}
