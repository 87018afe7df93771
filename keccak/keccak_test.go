package keccak_test

import (
	"bytes"
	"testing"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/go-ethcore/hexutil"
	"github/chapool/go-ethcore/keccak"
)

func TestKnownDigests(t *testing.T) {
	empty := keccak.Sum256(nil)
	assert.Equal(t,
		hexutil.MustDecode("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"),
		empty[:])

	abc := keccak.Sum256([]byte("abc"))
	assert.Equal(t,
		hexutil.MustDecode("0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45"),
		abc[:])
}

func TestStreamingMatchesOneShot(t *testing.T) {
	input := bytes.Repeat([]byte("keccak absorbs chunks of arbitrary length "), 50)
	want := keccak.Sum256(input)

	for _, chunk := range []int{1, 7, 31, 135, 136, 137, 1000} {
		h := keccak.New()
		for off := 0; off < len(input); off += chunk {
			end := off + chunk
			if end > len(input) {
				end = len(input)
			}
			_, err := h.Write(input[off:end])
			require.NoError(t, err)
		}
		assert.Equalf(t, want, h.Sum256(), "chunk size %d", chunk)
	}
}

func TestSumDoesNotConsumeState(t *testing.T) {
	h := keccak.New()
	_, _ = h.Write([]byte("hello"))
	first := h.Sum256()
	assert.Equal(t, first, h.Sum256())

	_, _ = h.Write([]byte(" world"))
	assert.Equal(t, keccak.Sum256([]byte("hello world")), h.Sum256())
}

func TestSelector(t *testing.T) {
	assert.Equal(t, [4]byte{0xa9, 0x05, 0x9c, 0xbb}, keccak.Selector("transfer(address,uint256)"))
	assert.Equal(t, [4]byte{0x70, 0xa0, 0x82, 0x31}, keccak.Selector("balanceOf(address)"))
}

func TestTopic(t *testing.T) {
	topic := keccak.Topic("Transfer(address,address,uint256)")
	assert.Equal(t,
		hexutil.MustDecode("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"),
		topic[:])
}

func TestMatchesGoEthereum(t *testing.T) {
	for _, input := range [][]byte{
		nil,
		[]byte("x"),
		bytes.Repeat([]byte{0xaa}, 200),
	} {
		ours := keccak.Sum256(input)
		assert.Equal(t, gethcrypto.Keccak256(input), ours[:])
	}
}
