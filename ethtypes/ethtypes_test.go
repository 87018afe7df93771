package ethtypes_test

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/go-ethcore/ethtypes"
)

func TestParseAddress(t *testing.T) {
	addr, err := ethtypes.ParseAddress("0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359")
	require.NoError(t, err)
	assert.Equal(t, "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359", addr.Hex())

	_, err = ethtypes.ParseAddress("0x1234")
	assert.True(t, errors.Is(err, ethtypes.ErrInvalidLength))
}

// Test cases from EIP-55.
var checksumVectors = []string{
	"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
	"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
	"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
}

func TestChecksum(t *testing.T) {
	for _, want := range checksumVectors {
		addr, err := ethtypes.ParseAddress(want)
		require.NoError(t, err)
		assert.Equal(t, want, addr.Checksum())
	}
}

func TestParseChecksumAddress(t *testing.T) {
	for _, s := range checksumVectors {
		addr, err := ethtypes.ParseChecksumAddress(s)
		require.NoError(t, err)
		// Round trip: a valid EIP-55 string re-checksums to itself.
		assert.Equal(t, s, addr.Checksum())
	}

	// One flipped letter case breaks the checksum.
	_, err := ethtypes.ParseChecksumAddress("0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	assert.Error(t, err)

	// All-lowercase input carries no checksum and always parses.
	_, err = ethtypes.ParseChecksumAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	assert.NoError(t, err)
}

func TestZeroAddress(t *testing.T) {
	assert.True(t, ethtypes.ZeroAddress.IsZero())
	addr := ethtypes.MustParseAddress("0x0000000000000000000000000000000000000001")
	assert.False(t, addr.IsZero())
}

func TestHash(t *testing.T) {
	h, err := ethtypes.ParseHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")
	require.NoError(t, err)
	assert.Equal(t, "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef", h.Hex())

	_, err = ethtypes.ParseHash("0x1234")
	assert.True(t, errors.Is(err, ethtypes.ErrInvalidLength))
}

func TestBlockTag(t *testing.T) {
	assert.True(t, ethtypes.Latest.Valid())
	assert.True(t, ethtypes.Finalized.Valid())
	assert.False(t, ethtypes.BlockTag("0x10").Valid())
}

func TestReceiptJSON(t *testing.T) {
	payload := `{
		"status": "0x1",
		"cumulativeGasUsed": "0x5208",
		"gasUsed": "0x5208",
		"effectiveGasPrice": "0x3b9aca00",
		"logs": [{
			"address": "0x00000000000c2e074ec69a0dfb2997ba6c7d2e1e",
			"topics": ["0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"],
			"data": "0x0000000000000000000000000000000000000000000000000000000000000001",
			"blockNumber": "0x10",
			"transactionHash": "0x1111111111111111111111111111111111111111111111111111111111111111",
			"transactionIndex": "0x0",
			"blockHash": "0x2222222222222222222222222222222222222222222222222222222222222222",
			"logIndex": "0x0",
			"removed": false
		}],
		"logsBloom": "0x",
		"transactionHash": "0x1111111111111111111111111111111111111111111111111111111111111111",
		"transactionIndex": "0x0",
		"contractAddress": null,
		"blockHash": "0x2222222222222222222222222222222222222222222222222222222222222222",
		"blockNumber": "0x10",
		"type": "0x2"
	}`
	var receipt ethtypes.Receipt
	require.NoError(t, json.Unmarshal([]byte(payload), &receipt))
	assert.Equal(t, uint64(1), uint64(receipt.Status))
	assert.Equal(t, uint64(21000), uint64(receipt.GasUsed))
	require.Len(t, receipt.Logs, 1)
	assert.Equal(t, uint64(16), uint64(receipt.Logs[0].BlockNumber))
	assert.Nil(t, receipt.ContractAddress)
}
