package domain

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	// DefaultIDLength is the length of minted node IDs
	DefaultIDLength = 6
	// DefaultMaxAttempts bounds the candidates drawn for a single node ID
	DefaultMaxAttempts = 10000
	// NumericAlphabet is the alphabet minted node IDs are drawn from
	NumericAlphabet = "0123456789"
)

// ErrIDSpaceExhausted is returned when no unique replacement ID could be found
var ErrIDSpaceExhausted = errors.New("id space exhausted")

// IDSpaceExhaustedError reports the node ID whose replacement could not be minted
type IDSpaceExhaustedError struct {
	ID       string
	Attempts int
}

func (e *IDSpaceExhaustedError) Error() string {
	return fmt.Sprintf("no unique replacement for node %s after %d attempts: %s", e.ID, e.Attempts, ErrIDSpaceExhausted)
}

func (e *IDSpaceExhaustedError) Is(target error) bool {
	return target == ErrIDSpaceExhausted
}

// IDGenerator produces candidate node IDs
type IDGenerator interface {
	NewID() string
}

// NumericIDGenerator draws fixed-length IDs uniformly from an alphabet
type NumericIDGenerator struct {
	alphabet string
	length   int
	intN     func(int) int
}

// NewNumericIDGenerator creates a generator of length-character numeric IDs.
// A nil rng uses the automatically seeded global source.
func NewNumericIDGenerator(length int, rng *rand.Rand) *NumericIDGenerator {
	if length <= 0 {
		length = DefaultIDLength
	}
	g := &NumericIDGenerator{
		alphabet: NumericAlphabet,
		length:   length,
		intN:     rand.IntN,
	}
	if rng != nil {
		g.intN = rng.IntN
	}
	return g
}

// NewID returns the next candidate
func (g *NumericIDGenerator) NewID() string {
	var b strings.Builder
	b.Grow(g.length)
	for i := 0; i < g.length; i++ {
		b.WriteByte(g.alphabet[g.intN(len(g.alphabet))])
	}
	return b.String()
}
