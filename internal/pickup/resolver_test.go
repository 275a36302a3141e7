package pickup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveHeadingWindow(t *testing.T) {
	text := "Dealer: Example Motors\n\nPICKUP LOCATION:\n8670 10e Avenue, Montreal, QC, H1Z 3B8\n\nNotes: call ahead"

	b := Resolve(text)
	require.NotNil(t, b)
	assert.Equal(t, "8670", b.Number)
	assert.Equal(t, "Montreal", b.City)
	assert.Equal(t, "QC", b.Province)
	assert.Equal(t, "H1Z 3B8", b.PostalCode)
}

func TestResolveHeadingWithOCRDamage(t *testing.T) {
	text := "PLCKUP LOCATlON\n123 Main St, Toronto, ON, M5V 2T6\n"

	b := Resolve(text)
	require.NotNil(t, b)
	assert.Equal(t, "Toronto", b.City)
	assert.Equal(t, "ON", b.Province)
}

func TestResolveDisambiguation(t *testing.T) {
	text := "Selling Dealership:\n123 Queen St, Toronto, ON M5V 2T6\n\n" +
		"Pickup address for carrier:\n456 King St W, Montreal, QC H3B 1X8\n"

	b := Resolve(text)
	require.NotNil(t, b)
	assert.Equal(t, "456", b.Number)
	assert.Equal(t, "Montreal", b.City)
	assert.Equal(t, "QC", b.Province)
}

func TestResolveTieKeepsFirst(t *testing.T) {
	text := "123 Queen St, Toronto, ON M5V 2T6\n\n456 King St W, Montreal, QC H3B 1X8\n"

	b := Resolve(text)
	require.NotNil(t, b)
	assert.Equal(t, "123", b.Number)
	assert.Equal(t, "Toronto", b.City)
}

func TestResolveLooseGrammar(t *testing.T) {
	text := "Vehicle location 456 King St W Montreal QC H3B 1X8 end"

	b := Resolve(text)
	require.NotNil(t, b)
	assert.Equal(t, "456", b.Number)
	assert.Equal(t, "Montreal", b.City)
	assert.Equal(t, "QC", b.Province)
	assert.Equal(t, "H3B 1X8", b.PostalCode)
}

func TestResolveFullProvinceName(t *testing.T) {
	text := "Pickup Spot:\n123 Main St, Toronto, Ontario, M5V 2T6\n"

	b := Resolve(text)
	require.NotNil(t, b)
	assert.Equal(t, "ON", b.Province)
	assert.Equal(t, "M5V 2T6", b.PostalCode)
}

func TestResolveRejectsInvalid(t *testing.T) {
	assert.Nil(t, Resolve(""))
	assert.Nil(t, Resolve("no address in this text at all"))
	// Postal code fails validation, candidate dropped
	assert.Nil(t, Resolve("123 Main St, Toronto, ON MMM 2T6"))
}

func TestResolveRejectsProvincePostalMismatch(t *testing.T) {
	// H-prefix codes belong to Quebec; an Ontario pairing is a misread
	assert.Nil(t, Resolve("123 Main St, Toronto, ON H1Z 3B8"))

	// The misread candidate does not shadow a consistent one later on
	text := "123 Main St, Toronto, ON H1Z 3B8\n\n456 King St W, Montreal, QC H3B 1X8\n"
	b := Resolve(text)
	require.NotNil(t, b)
	assert.Equal(t, "456", b.Number)
	assert.Equal(t, "Montreal", b.City)
}

func TestScoreContext(t *testing.T) {
	text := "Pickup Location is here: X"
	assert.Equal(t, 4, scoreContext(text, len(text)-1))

	text = "Selling dealership address: X"
	assert.Equal(t, -3, scoreContext(text, len(text)-1))

	text = "Buyer drop-off point: X"
	assert.Equal(t, 0, scoreContext(text, len(text)-1))

	assert.Equal(t, 0, scoreContext("neutral text", 7))
}
