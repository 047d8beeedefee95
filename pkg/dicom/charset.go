package dicom

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Charset converts text values between UTF-8 and a Specific Character Set
type Charset struct {
	Name  string
	cmap  *charmap.Charmap // nil for ASCII and UTF-8
	ascii bool
}

var charsets = map[string]*charmap.Charmap{
	"ISO_IR 100": charmap.ISO8859_1,
	"ISO_IR 101": charmap.ISO8859_2,
	"ISO_IR 109": charmap.ISO8859_3,
	"ISO_IR 110": charmap.ISO8859_4,
	"ISO_IR 144": charmap.ISO8859_5,
	"ISO_IR 127": charmap.ISO8859_6,
	"ISO_IR 126": charmap.ISO8859_7,
	"ISO_IR 138": charmap.ISO8859_8,
	"ISO_IR 148": charmap.ISO8859_9,
	"ISO_IR 203": charmap.ISO8859_15,
}

// LookupCharset resolves a (0008,0005) value. Unknown terms fall back to the
// default repertoire, ISO_IR 192 passes UTF-8 through unchanged.
func LookupCharset(specificCharacterSet string) Charset {
	name := strings.TrimSpace(specificCharacterSet)
	if i := strings.IndexByte(name, '\\'); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	if name == "ISO_IR 192" {
		return Charset{Name: name}
	}
	if cm, ok := charsets[name]; ok {
		return Charset{Name: name, cmap: cm}
	}
	return Charset{Name: name, ascii: true}
}

// Encode converts a UTF-8 string. Runes outside the character set become '?'.
func (c Charset) Encode(s string) []byte {
	if c.cmap == nil && !c.ascii {
		return []byte(s)
	}
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if c.ascii {
			if r < utf8.RuneSelf {
				out = append(out, byte(r))
			} else {
				out = append(out, '?')
			}
			continue
		}
		if b, ok := c.cmap.EncodeRune(r); ok {
			out = append(out, b)
		} else {
			out = append(out, '?')
		}
	}
	return out
}

// Decode converts encoded bytes back to UTF-8
func (c Charset) Decode(b []byte) string {
	if c.cmap == nil {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for _, x := range b {
		sb.WriteRune(c.cmap.DecodeByte(x))
	}
	return sb.String()
}
