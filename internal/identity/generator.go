package identity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	minSuffixLen = 6
	maxSuffixLen = 64
)

var suffixRe = regexp.MustCompile(`^[a-z0-9]+$`)

// Generator mints and validates identifiers of the form prefix_suffix.
type Generator struct {
	prefix    string
	suffixLen int
	random    func() string
}

// NewGenerator returns a Generator for the given prefix and suffix length.
func NewGenerator(prefix string, suffixLen int) *Generator {
	return &Generator{
		prefix:    prefix,
		suffixLen: suffixLen,
		random:    randomHex,
	}
}

// New mints a fresh identifier.
func (g *Generator) New() string {
	var b strings.Builder
	for b.Len() < g.suffixLen {
		b.WriteString(g.random())
	}
	return g.prefix + "_" + b.String()[:g.suffixLen]
}

// Valid reports whether id is an identifier this deployment would accept.
// Suffixes of other lengths are accepted so identities minted under an
// older suffix length keep working.
func (g *Generator) Valid(id string) bool {
	suffix, ok := strings.CutPrefix(id, g.prefix+"_")
	if !ok {
		return false
	}
	if len(suffix) < minSuffixLen || len(suffix) > maxSuffixLen {
		return false
	}
	return suffixRe.MatchString(suffix)
}

// Normalize trims and lowercases a raw carrier value and validates it.
func (g *Generator) Normalize(raw string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(raw))
	if !g.Valid(id) {
		return "", fmt.Errorf("malformed client id %q", raw)
	}
	return id, nil
}

func randomHex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
