package apiclient_test

import (
	"testing"

	"github.com/andyle182810/helpscout/apiclient"
	"github.com/stretchr/testify/require"
)

func TestParams_Compact(t *testing.T) {
	t.Parallel()

	var (
		nilPointer *int
		nilSlice   []string
		nilMap     map[string]string
		zero       = 0
	)

	params := apiclient.Params{
		"absent":      nil,
		"nilPointer":  nilPointer,
		"nilSlice":    nilSlice,
		"nilMap":      nilMap,
		"zero":        0,
		"empty":       "",
		"false":       false,
		"emptySlice":  []string{},
		"zeroPointer": &zero,
		"name":        "Jane",
	}

	compacted := params.Compact()

	require.Equal(t, apiclient.Params{
		"zero":        0,
		"empty":       "",
		"false":       false,
		"emptySlice":  []string{},
		"zeroPointer": &zero,
		"name":        "Jane",
	}, compacted)
	require.Len(t, params, 10, "Compact must not modify the receiver")
}

func TestParams_CompactNil(t *testing.T) {
	t.Parallel()

	var params apiclient.Params

	compacted := params.Compact()

	require.NotNil(t, compacted)
	require.Empty(t, compacted)
}
