// Package code issues invite and referral codes from crypto/rand.
package code

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
)

const (
	ReferralLength = 8
	// fragmentLength is the width of one base36 fragment of an invite code;
	// two fragments give 26 characters.
	fragmentLength = 13

	referralAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Generator draws codes from an entropy source.
type Generator struct {
	rand io.Reader
}

func NewGenerator() *Generator {
	return &Generator{rand: rand.Reader}
}

// NewGeneratorFrom is used by tests to make output deterministic.
func NewGeneratorFrom(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Invite returns a 26 character lowercase base36 token.
func (g *Generator) Invite() (string, error) {
	a, err := g.fragment()
	if err != nil {
		return "", err
	}
	b, err := g.fragment()
	if err != nil {
		return "", err
	}
	return a + b, nil
}

// 36^13 < 2^68, so 9 random bytes cover the full fragment range.
func (g *Generator) fragment() (string, error) {
	buf := make([]byte, 9)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	n := new(big.Int).SetBytes(buf)
	s := n.Text(36)
	if len(s) > fragmentLength {
		s = s[len(s)-fragmentLength:]
	}
	return strings.Repeat("0", fragmentLength-len(s)) + s, nil
}

// Referral returns an 8 character code over A-Z0-9.
func (g *Generator) Referral() (string, error) {
	max := big.NewInt(int64(len(referralAlphabet)))
	var sb strings.Builder
	sb.Grow(ReferralLength)
	for i := 0; i < ReferralLength; i++ {
		n, err := rand.Int(g.rand, max)
		if err != nil {
			return "", fmt.Errorf("read entropy: %w", err)
		}
		sb.WriteByte(referralAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NormalizeReferral upper-cases and trims a user supplied referral code.
func NormalizeReferral(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
