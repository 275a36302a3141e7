package address

import (
	"testing"

	"github.com/carriernorth/release-form-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullAddress(t *testing.T) {
	b := Parse("8670 10e Avenue, Montreal, QC, H1Z 3B8, Canada")

	assert.Equal(t, "8670", b.Number)
	assert.Contains(t, b.Street, "10e Avenue")
	assert.Equal(t, "Montreal", b.City)
	assert.Equal(t, "QC", b.Province)
	assert.Equal(t, "H1Z 3B8", b.PostalCode)
	assert.Equal(t, "Canada", b.Country)
}

func TestParseComposeRoundTrip(t *testing.T) {
	b := Parse("8670 10e Avenue, Montreal, QC, H1Z 3B8, Canada")
	assert.Equal(t, "8670 10e Avenue, Montreal, QC H1Z 3B8, Canada", Compose(b))
}

func TestParseProvincePostalInOneSegment(t *testing.T) {
	b := Parse("123 Main St, Toronto, ON M5V 2T6")

	assert.Equal(t, "123", b.Number)
	assert.Equal(t, "Main St", b.Street)
	assert.Equal(t, "Toronto", b.City)
	assert.Equal(t, "ON", b.Province)
	assert.Equal(t, "M5V 2T6", b.PostalCode)
	assert.Equal(t, "Canada", b.Country)
}

func TestParseUnit(t *testing.T) {
	b := Parse("123 Main St, Suite 4B, Toronto, ON M5V 2T6")
	assert.Equal(t, "4B", b.Unit)
	assert.Equal(t, "123", b.Number)
	assert.Equal(t, "Toronto", b.City)

	b = Parse("Apt #12, 123 Main St, Toronto, ON M5V 2T6")
	assert.Equal(t, "12", b.Unit)
	assert.Equal(t, "123", b.Number)

	b = Parse("123 Main St #305, Toronto, ON M5V 2T6")
	assert.Equal(t, "305", b.Unit)
	assert.Equal(t, "123", b.Number)
	assert.Equal(t, "Main St", b.Street)
}

func TestParseAreaSegment(t *testing.T) {
	b := Parse("8670 10e Avenue, Rosemont, Montreal, QC H1Z 3B8, Canada")
	assert.Equal(t, "8670", b.Number)
	assert.Equal(t, "Rosemont", b.Area)
	assert.Equal(t, "Montreal", b.City)
	assert.Equal(t, "QC", b.Province)
}

func TestParseCountry(t *testing.T) {
	b := Parse("123 Main St, Toronto, ON M5V 2T6, CA")
	assert.Equal(t, "Canada", b.Country)

	// "United" must not be misread as a "Unit" designator, which would
	// mangle the segment before the alias lookup sees it.
	b = Parse("123 Main St, Toronto, ON M5V 2T6, United States of America")
	assert.Equal(t, "USA", b.Country)
	assert.Empty(t, b.Unit)

	// Embedded country token inside the last segment
	b = Parse("500 Granville St, Vancouver, BC V6C 1W6 CA")
	assert.Equal(t, "Canada", b.Country)
	assert.Equal(t, "BC", b.Province)
	assert.Equal(t, "V6C 1W6", b.PostalCode)

	// Defaults to Canada when nothing says otherwise
	b = Parse("123 Main St, Toronto, ON M5V 2T6")
	assert.Equal(t, "Canada", b.Country)
}

func TestParseInfersProvinceFromPostal(t *testing.T) {
	b := Parse("8670 10e Avenue, Montreal, H1Z 3B8")
	assert.Equal(t, "H1Z 3B8", b.PostalCode)
	assert.Equal(t, "QC", b.Province)
}

func TestParseShortForms(t *testing.T) {
	b := Parse("77 Bloor St W, Toronto")
	assert.Equal(t, "77", b.Number)
	assert.Equal(t, "Bloor St W", b.Street)
	assert.Equal(t, "Toronto", b.City)

	b = Parse("123 Main St Toronto ON M5V 2T6")
	assert.Equal(t, "123", b.Number)
	assert.Equal(t, "ON", b.Province)
	assert.Equal(t, "M5V 2T6", b.PostalCode)

	b = Parse("")
	assert.Equal(t, "Canada", b.Country)
	assert.Empty(t, b.Street)
}

func TestParseRepairsStreetOCR(t *testing.T) {
	b := Parse("8670 l0e Avenue, Montreal, QC H1Z 3B8")
	assert.Equal(t, "10e Avenue", b.Street)
}

func TestParseNoLeadingNumber(t *testing.T) {
	b := Parse("Chemin du Lac, Sainte-Adele, QC J8B 2N8")
	require.Empty(t, b.Number)
	assert.Equal(t, "Chemin du Lac", b.Street)
	assert.Equal(t, "Sainte-Adele", b.City)
	assert.Equal(t, "QC", b.Province)
}

func TestCompose(t *testing.T) {
	b := models.AddressBreakdown{
		Number:     "8670",
		Street:     "10e Avenue",
		Unit:       "5",
		City:       "Montreal",
		Province:   "QC",
		PostalCode: "h1z3b8",
		Country:    "Canada",
	}
	assert.Equal(t, "8670 10e Avenue, 5, Montreal, QC H1Z 3B8, Canada", Compose(b))

	// Empty segments drop out
	assert.Equal(t, "Canada", Compose(models.AddressBreakdown{Country: "Canada"}))
	assert.Equal(t, "", Compose(models.AddressBreakdown{}))
}
