package module

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	d := NewDate(time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "19900102", d.String())
	assert.Equal(t, "", Date{}.String())
	assert.True(t, Date{}.IsZero())

	parsed, err := ParseDate("19900102")
	require.NoError(t, err)
	assert.Equal(t, d, parsed)

	empty, err := ParseDate("")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	_, err = ParseDate("19901302")
	assert.Error(t, err)
}

func TestTime(t *testing.T) {
	tm := NewTime(time.Date(2024, 1, 1, 9, 5, 7, 999, time.UTC))
	assert.Equal(t, "090507", tm.String())
}

func TestPersonName(t *testing.T) {
	tests := []string{
		"DOE^JOHN",
		"UNKNOWN^PATIENT",
		"SMITH",
		"A^B^C^D^E",
		"A^B^C^D^E^F",
		"Yamada^Tarou=山田^太郎",
		"DOE^JOHN^^^",
		"^JOHN",
		"",
	}
	for _, in := range tests {
		assert.Equal(t, in, ParsePersonName(in).String(), in)
	}

	pn := ParsePersonName("DOE^JOHN^Q^DR^JR")
	assert.Equal(t, "DOE", pn.FamilyName)
	assert.Equal(t, "JOHN", pn.GivenName)
	assert.Equal(t, "Q", pn.MiddleName)
	assert.Equal(t, "DR", pn.Prefix)
	assert.Equal(t, "JR", pn.Suffix)

	trailing := ParsePersonName("DOE^JOHN^^^")
	assert.Equal(t, "JOHN", trailing.GivenName)
	assert.Empty(t, trailing.Suffix)
	trailing.GivenName = "JANE"
	assert.Equal(t, "DOE^JANE", trailing.String(), "edited components are rendered")

	built := PersonName{FamilyName: "Doe", GivenName: "John"}
	assert.Equal(t, "Doe^John", built.String())
}
