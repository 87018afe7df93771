// Package hdwallet implements hierarchical-deterministic key material:
// BIP-39 mnemonics and seeds, BIP-32 node derivation, and the BIP-44
// Ethereum path.
package hdwallet

import (
	"crypto/sha256"
	"crypto/sha512"
	"strings"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/crypto/pbkdf2"
)

var (
	// ErrInvalidMnemonic covers wrong word counts, unknown words, and
	// checksum failures.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	// ErrInvalidDerivation covers hardened-without-secret requests and
	// out-of-range derivation material.
	ErrInvalidDerivation = errors.New("invalid derivation")
)

// wordIndex maps each English wordlist entry to its 11-bit index.
var wordIndex = func() map[string]int {
	m := make(map[string]int, len(wordlists.English))
	for i, w := range wordlists.English {
		m[w] = i
	}
	return m
}()

// NewMnemonic encodes entropy of 128, 160, 192, 224, or 256 bits as a
// mnemonic sentence: SHA-256 checksum bits are appended and the whole is
// split into 11-bit wordlist indices.
func NewMnemonic(entropy []byte) (string, error) {
	bits := len(entropy) * 8
	if bits < 128 || bits > 256 || bits%32 != 0 {
		return "", errors.Wrapf(ErrInvalidMnemonic, "entropy size %d bits", bits)
	}
	checksum := sha256.Sum256(entropy)
	checksumBits := bits / 32

	words := make([]string, 0, (bits+checksumBits)/11)
	var acc uint
	accBits := 0
	emit := func(b byte, n int) {
		acc = acc<<uint(n) | uint(b)>>(8-uint(n))
		accBits += n
		if accBits >= 11 {
			shift := uint(accBits - 11)
			words = append(words, wordlists.English[acc>>shift&0x7ff])
			accBits -= 11
			acc &= 1<<shift - 1
		}
	}
	for _, b := range entropy {
		emit(b, 8)
	}
	for i := 0; i < checksumBits; i += 8 {
		n := checksumBits - i
		if n > 8 {
			n = 8
		}
		emit(checksum[i/8], n)
	}
	return strings.Join(words, " "), nil
}

// MnemonicToEntropy validates the sentence and returns its entropy.
func MnemonicToEntropy(mnemonic string) ([]byte, error) {
	words := strings.Fields(mnemonic)
	switch len(words) {
	case 12, 15, 18, 21, 24:
	default:
		return nil, errors.Wrapf(ErrInvalidMnemonic, "%d words", len(words))
	}
	totalBits := len(words) * 11
	entropyBits := totalBits * 32 / 33
	checksumBits := totalBits - entropyBits

	raw := make([]byte, 0, totalBits/8+1)
	var acc uint
	accBits := 0
	for _, w := range words {
		idx, ok := wordIndex[w]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidMnemonic, "unknown word %q", w)
		}
		acc = acc<<11 | uint(idx)
		accBits += 11
		for accBits >= 8 {
			accBits -= 8
			raw = append(raw, byte(acc>>uint(accBits)))
		}
	}
	if accBits > 0 {
		raw = append(raw, byte(acc<<(8-uint(accBits))))
	}

	entropy := raw[:entropyBits/8]
	checksum := sha256.Sum256(entropy)
	got := raw[entropyBits/8]
	want := checksum[0] &^ (0xff >> uint(checksumBits))
	got &^= 0xff >> uint(checksumBits)
	if got != want {
		return nil, errors.Wrap(ErrInvalidMnemonic, "checksum mismatch")
	}
	return entropy, nil
}

// ValidateMnemonic checks word count, vocabulary, and checksum.
func ValidateMnemonic(mnemonic string) error {
	_, err := MnemonicToEntropy(mnemonic)
	return err
}

// NewSeed derives the 64-byte BIP-39 seed: PBKDF2-HMAC-SHA512 over the
// sentence with "mnemonic" || passphrase as salt and 2048 iterations.
// The mnemonic is validated first.
func NewSeed(mnemonic, passphrase string) ([]byte, error) {
	if err := ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}
	const iterations = 2048
	const keyLength = 64
	return pbkdf2.Key([]byte(mnemonic), []byte("mnemonic"+passphrase), iterations, keyLength, sha512.New), nil
}
