// Package uid generates and validates DICOM Unique Identifiers.
//
// Generated UIDs have the form <root>.<unix microseconds>.<random>, where the
// random component is taken from a version 4 UUID and clipped to the digits
// that still fit in the 64 character limit.
package uid

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxLength is the maximum length of a UID value
	MaxLength = 64
	// DefaultRoot is the organization root used when none is configured
	DefaultRoot = "1.2.826.0.1.3680043.8.498"

	timeDigits      = 16 // unix microseconds until the year 2286
	minRandomDigits = 8
)

var (
	// ErrGeneration is returned when the clock or entropy source fails
	ErrGeneration = errors.New("uid generation failed")
	// ErrInvalid is returned for values that are not syntactically valid UIDs
	ErrInvalid = errors.New("invalid uid")
)

// Generator produces UIDs under a fixed organization root
type Generator struct {
	root    string
	now     func() time.Time
	entropy io.Reader
}

// Option configures a Generator
type Option func(*Generator)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithEntropy overrides the random source (crypto/rand by default)
func WithEntropy(r io.Reader) Option {
	return func(g *Generator) {
		g.entropy = r
	}
}

// NewGenerator creates a Generator for the given root. An empty root selects DefaultRoot.
func NewGenerator(root string, opts ...Option) (*Generator, error) {
	root = strings.TrimSuffix(strings.TrimSpace(root), ".")
	if root == "" {
		root = DefaultRoot
	}
	if err := Validate(root); err != nil {
		return nil, fmt.Errorf("root %q: %w", root, err)
	}
	if len(root)+2+timeDigits+minRandomDigits > MaxLength {
		return nil, fmt.Errorf("root %q: %w: leaves fewer than %d random digits", root, ErrInvalid, minRandomDigits)
	}
	g := &Generator{root: root, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Root returns the organization root of the generator
func (g *Generator) Root() string {
	return g.root
}

// New returns a fresh UID
func (g *Generator) New() (string, error) {
	var (
		u   uuid.UUID
		err error
	)
	if g.entropy != nil {
		u, err = uuid.NewRandomFromReader(g.entropy)
	} else {
		u, err = uuid.NewRandom()
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	ts := g.now().UnixMicro()
	if ts <= 0 {
		return "", fmt.Errorf("%w: clock returned %d", ErrGeneration, ts)
	}

	prefix := g.root + "." + strconv.FormatInt(ts, 10) + "."
	digits := MaxLength - len(prefix)
	if digits < 1 {
		return "", fmt.Errorf("%w: no room for random component under %q", ErrGeneration, g.root)
	}

	// big.Int formatting never yields a leading zero
	n := new(big.Int).SetBytes(u[:])
	n.Mod(n, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil))
	return prefix + n.String(), nil
}

// Validate checks that s is a syntactically valid UID: at most 64 characters,
// dot separated numeric components, no empty component and no leading zero
// unless the component is exactly "0".
func Validate(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty", ErrInvalid)
	}
	if len(s) > MaxLength {
		return fmt.Errorf("%w: %d characters exceeds %d", ErrInvalid, len(s), MaxLength)
	}
	for i, comp := range strings.Split(s, ".") {
		if comp == "" {
			return fmt.Errorf("%w: empty component %d", ErrInvalid, i)
		}
		if len(comp) > 1 && comp[0] == '0' {
			return fmt.Errorf("%w: component %q has a leading zero", ErrInvalid, comp)
		}
		for _, c := range comp {
			if c < '0' || c > '9' {
				return fmt.Errorf("%w: component %q is not numeric", ErrInvalid, comp)
			}
		}
	}
	return nil
}

// IsValid reports whether s is a syntactically valid UID
func IsValid(s string) bool {
	return Validate(s) == nil
}
