package fields

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVehicle(t *testing.T) {
	rec := ExtractVehicle("Release Form\n2019 Honda Civic LX\nVIN: 1HGCM82633A004352")
	assert.Equal(t, "2019", rec.Year)
	assert.Equal(t, "Honda", rec.Make)
	assert.Equal(t, "Civic LX", rec.Model)
}

func TestExtractVehicleStoplist(t *testing.T) {
	// "Vehicle" is document noise, not a make
	rec := ExtractVehicle("2020 Vehicle released to buyer")
	assert.Empty(t, rec.Year)

	// The stoplisted line is skipped, a later real line still matches
	rec = ExtractVehicle("2020 Vehicle released to buyer\n2019 Honda Civic LX")
	assert.Equal(t, "2019", rec.Year)
	assert.Equal(t, "Honda", rec.Make)
}

func TestExtractVehicleYearRepair(t *testing.T) {
	rec := ExtractVehicle("20I9 Honda Civic LX")
	assert.Equal(t, "2019", rec.Year)

	rec = ExtractVehicle("19l4 Ford Model T")
	assert.Equal(t, "1914", rec.Year)

	rec = ExtractVehicle("3019 Honda Civic LX")
	assert.Empty(t, rec.Year) // not a 19xx/20xx token at all
}

func TestExtractVehicleRejectsModelWithoutLetters(t *testing.T) {
	rec := ExtractVehicle("2019 Honda 12345")
	assert.Empty(t, rec.Year)
}

func TestExtractVehicleFirstMatchWins(t *testing.T) {
	rec := ExtractVehicle("2018 Toyota Corolla SE\n2019 Honda Civic LX")
	assert.Equal(t, "2018", rec.Year)
	assert.Equal(t, "Toyota", rec.Make)
}

func TestExtractVehicleNearVIN(t *testing.T) {
	filler := strings.Repeat("x", 600)
	text := "2018 Toyota Corolla SE\n" + filler + "\nVIN: 1HGCM82633A004352\n2019 Honda Civic LX"

	// Whole-document mode finds the first line; the windowed mode only sees
	// the lines around the VIN. The two modes may disagree, on purpose.
	whole := ExtractVehicle(text)
	assert.Equal(t, "2018", whole.Year)

	windowed := ExtractVehicleNearVIN(text, "1HGCM82633A004352")
	assert.Equal(t, "2019", windowed.Year)
	assert.Equal(t, "Honda", windowed.Make)

	assert.Empty(t, ExtractVehicleNearVIN(text, "").Year)
	assert.Empty(t, ExtractVehicleNearVIN("no vin here", "1HGCM82633A004352").Year)
}

func TestHasVehicleLine(t *testing.T) {
	assert.True(t, HasVehicleLine("2019 Honda Civic LX"))
	assert.False(t, HasVehicleLine("2020 Vehicle released to buyer"))
	assert.False(t, HasVehicleLine(""))
}

func TestExtractLabels(t *testing.T) {
	text := "Release Form No: RF-2024-0113\nTransaction ID: TXN-88421\nDate: 2024-03-01\nDue: 03/15/2024\nDate: 2024-03-01"
	labels := ExtractLabels(text)

	assert.Equal(t, "TXN-88421", labels.TransactionID)
	assert.Equal(t, "RF-2024-0113", labels.ReleaseFormNumber)
	assert.Equal(t, []string{"2024-03-01", "03/15/2024"}, labels.Dates)
}

func TestExtractLabelsEmpty(t *testing.T) {
	labels := ExtractLabels("nothing labeled here")
	assert.Empty(t, labels.TransactionID)
	assert.Empty(t, labels.ReleaseFormNumber)
	assert.Empty(t, labels.Dates)
}
