// Package ticket issues the short codes attendees present at the door.
package ticket

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	DefaultLength = 8
	alphabet      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

type CodeGenerator interface {
	Generate() (string, error)
}

// RandomGenerator draws base-36 codes from crypto/rand.
type RandomGenerator struct {
	Length int
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{Length: DefaultLength}
}

func (g *RandomGenerator) Generate() (string, error) {
	n := g.Length
	if n <= 0 {
		n = DefaultLength
	}
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate ticket code: %w", err)
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf), nil
}

// Valid reports whether code has the shape of a generated code.
func Valid(code string) bool {
	if code == "" {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if !(c >= '0' && c <= '9') && !(c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}
