package units_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/go-ethcore/units"
)

func TestParseEther(t *testing.T) {
	wei, err := units.ParseEther("1")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", wei.Dec())

	wei, err = units.ParseEther("1.5")
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", wei.Dec())

	wei, err = units.ParseEther("0.000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), wei.Uint64())

	wei, err = units.ParseEther("0")
	require.NoError(t, err)
	assert.True(t, wei.IsZero())

	for _, bad := range []string{"", ".", "1.2.3", "1,5", "-1", "0.0000000000000000001"} {
		_, err := units.ParseEther(bad)
		assert.Truef(t, errors.Is(err, units.ErrBadAmount), "input %q", bad)
	}
}

func TestFormatEther(t *testing.T) {
	assert.Equal(t, "1", units.FormatEther(units.Ether(1)))
	assert.Equal(t, "0", units.FormatEther(new(uint256.Int)))
	assert.Equal(t, "0.000000001", units.FormatEther(units.Gwei(1)))
	assert.Equal(t, "1.5", units.FormatEther(uint256.MustFromDecimal("1500000000000000000")))
}

func TestGweiHelpers(t *testing.T) {
	assert.Equal(t, "20000000000", units.Gwei(20).Dec())
	wei, err := units.ParseGwei("2.5")
	require.NoError(t, err)
	assert.Equal(t, "2500000000", wei.Dec())
	assert.Equal(t, "2.5", units.FormatGwei(wei))
}

func TestRoundTrip(t *testing.T) {
	for _, amount := range []string{"1", "0.1", "123456.789", "0.000000000000000123"} {
		wei, err := units.ParseEther(amount)
		require.NoError(t, err)
		assert.Equal(t, amount, units.FormatEther(wei))
	}
}
