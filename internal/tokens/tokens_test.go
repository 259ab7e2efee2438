package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drixl/drixl-go/internal/protocol"
)

func TestEstimate(t *testing.T) {
	assert.Equal(t, 0, Estimate(""))
	assert.Equal(t, 1, Estimate("abc"))
	assert.Equal(t, 1, Estimate("abcd"))
	assert.Equal(t, 2, Estimate("abcde"))
}

func TestCompare_CompactIsSmallest(t *testing.T) {
	msg, err := protocol.NewCompact("AGT2", "AGT1", protocol.CompactRequest, protocol.PriorityHigh,
		[]string{"ANLY", "XTRCT"},
		[]string{"firewall.log", "denied_ips", "out:json"},
		"ref#1")
	require.NoError(t, err)

	cmp := Compare(msg)
	require.Len(t, cmp.Counts, 3)

	compact := cmp.Counts[0]
	assert.Equal(t, "drixl", compact.Format)
	assert.Equal(t, 1.0, compact.Ratio)

	for _, c := range cmp.Counts[1:] {
		assert.GreaterOrEqual(t, c.Tokens, compact.Tokens, c.Format)
		assert.GreaterOrEqual(t, c.Ratio, 1.0, c.Format)
	}
	assert.Greater(t, cmp.SavingsVsNatural, 0.0)
}
