package vin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validVIN = "1HGCM82633A004352"

func TestCheckDigit(t *testing.T) {
	assert.Equal(t, byte('3'), CheckDigit(validVIN))
	assert.Equal(t, byte(0), CheckDigit("short"))
	assert.Equal(t, byte(0), CheckDigit(strings.Repeat("I", 17)))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(validVIN))
	assert.True(t, IsValid(strings.ToLower(validVIN)))

	// OCR substitutions are repaired before validation
	assert.True(t, IsValid("1HGCM82633AOO4352"))
	assert.True(t, IsValid("1HGCM-82633-A004352"))
}

func TestIsValidRejectsCorruption(t *testing.T) {
	// Flipping any single character breaks the check digit relation
	for i := 0; i < len(validVIN); i++ {
		if i == 8 {
			continue
		}
		mutated := []byte(validVIN)
		if mutated[i] == '2' {
			mutated[i] = '5'
		} else {
			mutated[i] = '2'
		}
		assert.False(t, IsValid(string(mutated)), "mutation at %d should invalidate", i)
	}

	assert.False(t, IsValid(""))
	assert.False(t, IsValid("1HGCM82633A00435"))    // 16 chars
	assert.False(t, IsValid("1HGCM82633A0043522")) // 18 chars
	assert.False(t, IsValid("ABCDEFGHJKLMNPRST"))  // no digit
}

func TestFindLabelled(t *testing.T) {
	text := "Release Form\nVIN: 1HGCM82633A004352\nDate: 2024-03-01"
	assert.Equal(t, validVIN, Find(text))

	// OCR splits the label itself; the loose fallback still catches the value
	text = "V I N # - 1HGCM8263-3AO04352 released"
	assert.Equal(t, validVIN, Find(text))

	text = "VIN#: 1HGCM82633-AO04352"
	assert.Equal(t, validVIN, Find(text))
}

func TestFindBareToken(t *testing.T) {
	text := "Vehicle released to carrier.\n1HGCM82633A004352\nThank you."
	assert.Equal(t, validVIN, Find(text))

	// An invalid bare token is skipped, a later valid one wins
	text = "1HGCM82633A004353 then 1HGCM82633A004352"
	assert.Equal(t, validVIN, Find(text))
}

func TestFindLooseSpacing(t *testing.T) {
	text := "No: 1HGC M826 33A0 0435 2 on file"
	assert.Equal(t, validVIN, Find(text))
}

func TestFindNothing(t *testing.T) {
	assert.Equal(t, "", Find(""))
	assert.Equal(t, "", Find("no vehicle identification here"))
	assert.Equal(t, "", Find("VIN: not on file"))
}

func TestIndex(t *testing.T) {
	text := "prefix 1HGCM82633A004352 suffix"
	require.Equal(t, 7, Index(text, validVIN))
	assert.Equal(t, -1, Index(text, "1HGCM82633A004353"))
	assert.Equal(t, -1, Index(text, ""))

	// OCR-damaged occurrence still locates
	damaged := "prefix 1HGCM82633AO04352 suffix"
	assert.Equal(t, 7, Index(damaged, validVIN))
}
