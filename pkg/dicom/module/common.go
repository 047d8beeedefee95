package module

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jpfielding/img2dcm/pkg/dicom/tag"
)

// Date represents a DICOM Date (DA VR)
type Date struct {
	Year  int
	Month int
	Day   int
}

// String formats the date as YYYYMMDD, or "" for the zero Date
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// IsZero checks if Date is uninitialized
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func NewDate(t time.Time) Date {
	return Date{
		Year:  t.Year(),
		Month: int(t.Month()),
		Day:   t.Day(),
	}
}

// ParseDate parses an 8 digit YYYYMMDD value. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse DA %q: %w", s, err)
	}
	return NewDate(t), nil
}

// Time represents a DICOM Time (TM VR) at second resolution
type Time struct {
	Hour   int
	Minute int
	Second int
}

// String formats the time as HHMMSS
func (t Time) String() string {
	return fmt.Sprintf("%02d%02d%02d", t.Hour, t.Minute, t.Second)
}

func NewTime(t time.Time) Time {
	return Time{
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// PersonName represents a DICOM Person Name (PN VR)
type PersonName struct {
	FamilyName string
	GivenName  string
	MiddleName string
	Prefix     string
	Suffix     string

	// raw is the parsed source, kept so trailing delimiters survive
	raw string
}

// ParsePersonName splits a ^ delimited name into its components.
// Anything past the fourth delimiter stays in Suffix so String round-trips.
func ParsePersonName(s string) PersonName {
	parts := splitPersonName(s)
	return PersonName{
		FamilyName: parts[0],
		GivenName:  parts[1],
		MiddleName: parts[2],
		Prefix:     parts[3],
		Suffix:     parts[4],
		raw:        s,
	}
}

func splitPersonName(s string) [5]string {
	var parts [5]string
	copy(parts[:], strings.SplitN(s, "^", 5))
	return parts
}

func (p PersonName) components() [5]string {
	return [5]string{p.FamilyName, p.GivenName, p.MiddleName, p.Prefix, p.Suffix}
}

// String returns the parsed value unchanged while the components still match it.
// Otherwise it renders Family^Given^Middle^Prefix^Suffix without trailing empty components.
func (p PersonName) String() string {
	parts := p.components()
	if p.raw != "" && splitPersonName(p.raw) == parts {
		return p.raw
	}
	n := len(parts)
	for n > 0 && parts[n-1] == "" {
		n--
	}
	return strings.Join(parts[:n], "^")
}

// IODModule is implemented by every module that contributes attributes to a data set
type IODModule interface {
	ToTags() []IODElement
}

type IODElement struct {
	Tag   tag.Tag
	Value interface{}
}

func formatIS(v int) string {
	return strconv.Itoa(v)
}

func formatMultiValue(values []string) string {
	return strings.Join(values, "\\")
}
