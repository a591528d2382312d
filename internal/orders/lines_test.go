package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSortsByProductID(t *testing.T) {
	got, err := normalize([]LineInput{
		{ProductID: "c", Qty: 1},
		{ProductID: "a", Qty: 2},
		{ProductID: "b", Qty: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []LineInput{
		{ProductID: "a", Qty: 2},
		{ProductID: "b", Qty: 3},
		{ProductID: "c", Qty: 1},
	}, got)
}

func TestNormalizeMergesDuplicates(t *testing.T) {
	got, err := normalize([]LineInput{
		{ProductID: "p1", Qty: 2},
		{ProductID: "p1", Qty: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []LineInput{{ProductID: "p1", Qty: 5}}, got)
}

func TestNormalizeRejects(t *testing.T) {
	cases := []struct {
		name  string
		lines []LineInput
	}{
		{"empty list", nil},
		{"zero qty", []LineInput{{ProductID: "p1", Qty: 0}}},
		{"negative qty", []LineInput{{ProductID: "p1", Qty: -1}}},
		{"empty product id", []LineInput{{ProductID: "", Qty: 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := normalize(tc.lines)
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}
