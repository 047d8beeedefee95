package dicom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharset_Encode(t *testing.T) {
	tests := []struct {
		name    string
		charset string
		in      string
		want    []byte
	}{
		{"latin1", "ISO_IR 100", "MÜLLER^JÖRG", []byte("M\xDCLLER^J\xD6RG")},
		{"latin1 unmapped", "ISO_IR 100", "李", []byte("?")},
		{"default repertoire", "", "Ü1", []byte("?1")},
		{"unknown term", "ISO 2022 IR 87", "Ü", []byte("?")},
		{"utf8", "ISO_IR 192", "李", []byte("李")},
		{"multi valued", "ISO_IR 100\\ISO 2022 IR 87", "é", []byte{0xE9}},
		{"cyrillic", "ISO_IR 144", "Д", []byte{0xB4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupCharset(tt.charset).Encode(tt.in))
		})
	}
}

func TestCharset_Decode(t *testing.T) {
	cs := LookupCharset("ISO_IR 100")
	assert.Equal(t, "ISO_IR 100", cs.Name)
	assert.Equal(t, "MÜLLER", cs.Decode([]byte("M\xDCLLER")))
	assert.Equal(t, "plain", LookupCharset("").Decode([]byte("plain")))
}
