package labels

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTicketID(t *testing.T) {
	custom := "TKT-CUSTOM"
	assert.Equal(t, "TKT-CUSTOM", defaultTicketID(&custom))

	empty := "  "
	for _, provided := range []*string{nil, &empty} {
		got := defaultTicketID(provided)
		require.True(t, strings.HasPrefix(got, "TKT-"), got)
		suffix := strings.TrimPrefix(got, "TKT-")
		assert.Len(t, suffix, 8)
		assert.Equal(t, strings.ToUpper(suffix), suffix)
	}
}

func TestDefaultTrackCode(t *testing.T) {
	custom := "777"
	assert.Equal(t, "777", defaultTrackCode(&custom))

	got := defaultTrackCode(nil)
	require.Len(t, got, 3)
	n, err := strconv.Atoi(got)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 0)
	assert.Less(t, n, 1000)
}
