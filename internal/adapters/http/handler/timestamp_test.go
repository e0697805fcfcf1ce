package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	cases := []struct {
		in   string
		want time.Time
	}{
		{in: `"2024-01-01T08:00:00Z"`, want: want},
		{in: `"2024-01-01T17:00:00+09:00"`, want: want},
		{in: `"2024-01-01T08:00:00"`, want: want},
		{in: `"2024-01-01T08:00"`, want: want},
		{in: `null`},
	}

	for _, tc := range cases {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(tc.in), &ts), tc.in)
		assert.True(t, ts.Equal(tc.want), "%s parsed as %s", tc.in, ts.Time)
	}
}

func TestTimestamp_UnmarshalJSON_Rejects(t *testing.T) {
	t.Parallel()

	for _, in := range []string{`"01/01/2024 08:00"`, `"2024-01-01"`, `1704096000`, `"2024-01-01T08:00:00.5Z"`, `"2024-01-01T08:00:00.000000001"`} {
		var ts Timestamp
		assert.Error(t, json.Unmarshal([]byte(in), &ts), in)
	}
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Timestamp{time.Date(2024, 1, 1, 17, 0, 0, 0, time.FixedZone("JST", 9*60*60))})
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-01T08:00:00Z"`, string(b))
}
