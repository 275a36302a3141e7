package postal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePostalCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase compact", "k1a0b1", "K1A 0B1"},
		{"ocr letter O in digit slot", "k1aob1", "K1A 0B1"},
		{"ocr digit 1 in letter slot", "k1a 0b1", "K1A 0B1"},
		{"already normalized", "H1Z 3B8", "H1Z 3B8"},
		{"hyphen separator", "h1z-3b8", "H1Z 3B8"},
		{"ocr I in digit slot", "HIZ 3B8", "H1Z 3B8"},
		{"ocr Q in letter slot", "Q1Z 3B8", "O1Z 3B8"},
		{"too short left alone", "H1Z", "H1Z"},
		{"too long left alone", "H1Z 3B8X", "H1Z 3B8X"},
		{"garbage left alone", "  not a code ", "NOT A CODE"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePostalCode(tt.in))
		})
	}
}

func TestNormalizePostalCodeIdempotent(t *testing.T) {
	inputs := []string{"k1a0b1", "k1aob1", "H1Z 3B8", "H1Z", "garbage in", "", "V6C-1W6"}
	for _, in := range inputs {
		once := NormalizePostalCode(in)
		assert.Equal(t, once, NormalizePostalCode(once), "input %q", in)
	}
}

func TestIsValidPostalCode(t *testing.T) {
	assert.True(t, IsValidPostalCode("H1Z 3B8"))
	assert.True(t, IsValidPostalCode("H1Z3B8"))
	assert.True(t, IsValidPostalCode("h1z 3b8"))
	assert.False(t, IsValidPostalCode("H1Z 3BB"))
	assert.False(t, IsValidPostalCode("11Z 3B8"))
	assert.False(t, IsValidPostalCode("H1Z 3B"))
	assert.False(t, IsValidPostalCode(""))
}

func TestNormalizeProvince(t *testing.T) {
	assert.Equal(t, "ON", NormalizeProvince("Ontario"))
	assert.Equal(t, "ON", NormalizeProvince("ontario"))
	assert.Equal(t, "ON", NormalizeProvince("ON"))
	assert.Equal(t, "ON", NormalizeProvince("on"))
	assert.Equal(t, "QC", NormalizeProvince("Québec"))
	assert.Equal(t, "NL", NormalizeProvince("Newfoundland and Labrador"))
	assert.Equal(t, "BC", NormalizeProvince("British Columbia"))
	assert.Equal(t, "", NormalizeProvince("Ont"))
	assert.Equal(t, "", NormalizeProvince("Ontariooo"))
	assert.Equal(t, "", NormalizeProvince(""))
}

func TestInferProvinceFromPostal(t *testing.T) {
	assert.Equal(t, "QC", InferProvinceFromPostal("H1Z 3B8"))
	assert.Equal(t, "ON", InferProvinceFromPostal("M5V 2T6"))
	assert.Equal(t, "AB", InferProvinceFromPostal("t5j 0n3"))
	assert.Equal(t, "NT", InferProvinceFromPostal("X1A 2N1"))
	assert.Equal(t, "", InferProvinceFromPostal("Z9Z 9Z9"))
	assert.Equal(t, "", InferProvinceFromPostal(""))
}

func TestPostalPrefixAllowsProvince(t *testing.T) {
	assert.True(t, PostalPrefixAllowsProvince("H1Z 3B8", "QC"))
	assert.True(t, PostalPrefixAllowsProvince("G1R 4S9", "QC"))
	assert.True(t, PostalPrefixAllowsProvince("X0A 0H0", "NU"))
	assert.True(t, PostalPrefixAllowsProvince("X1A 2N1", "NT"))
	assert.True(t, PostalPrefixAllowsProvince("L4W 1S9", "ON"))
	assert.False(t, PostalPrefixAllowsProvince("H1Z 3B8", "ON"))
	assert.False(t, PostalPrefixAllowsProvince("", "QC"))
	assert.False(t, PostalPrefixAllowsProvince("H1Z 3B8", ""))
}

func TestRepairStreetOCR(t *testing.T) {
	assert.Equal(t, "10e Avenue", RepairStreetOCR("l0e Avenue"))
	assert.Equal(t, "10e Avenue", RepairStreetOCR("I0e Avenue"))
	assert.Equal(t, "10e avenue", RepairStreetOCR("loe avenue"))
	assert.Equal(t, "10e Rue", RepairStreetOCR("lOe Rue"))
	assert.Equal(t, "10e Avenue", RepairStreetOCR("10e Avenue"))
	// Not followed by a street word: left alone
	assert.Equal(t, "loe Street", RepairStreetOCR("loe Street"))
}
