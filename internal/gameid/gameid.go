// Package gameid generates sortable, human-pasteable game identifiers:
// UUIDv7 encoded as 26 characters of Crockford base32, so ids sort by
// creation time and survive copy/paste without ambiguous characters.
package gameid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Crockford's base32 alphabet.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Generate creates a new game ID. Falls back to a random UUIDv4 in the
// unlikely event the v7 source fails.
func Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return encodeBase32(id)
}

// encodeBase32 encodes the 128-bit UUID as 26 base32 characters, five
// bits per character, high bits first.
func encodeBase32(id uuid.UUID) string {
	var result [26]byte
	for i := 0; i < 26; i++ {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8
		if byteIndex < 16 {
			if bitIndex <= 3 {
				value = (id[byteIndex] >> (3 - bitIndex)) & 0x1f
			} else {
				value = (id[byteIndex] << (bitIndex - 3)) & 0x1f
				if byteIndex+1 < 16 {
					value |= id[byteIndex+1] >> (11 - bitIndex)
				}
			}
		}
		result[i] = alphabet[value]
	}
	return string(result[:])
}

// Validate checks that an id is 26 characters of the base32 alphabet with
// a first character representing at most 128 bits.
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("game ID must be exactly 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
