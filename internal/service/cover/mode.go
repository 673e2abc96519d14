package cover

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Mode selects which cells a coverage returns.
type Mode int

const (
	// Touching accepts every cell that intersects the polygon.
	Touching Mode = iota
	// FullyContained accepts only cells lying entirely inside the polygon.
	FullyContained
)

// ModeFor maps the boolean "fully contained only" flag used by callers.
func ModeFor(fullyContained bool) Mode {
	if fullyContained {
		return FullyContained
	}
	return Touching
}

func (m Mode) String() string {
	switch m {
	case Touching:
		return "touching"
	case FullyContained:
		return "fully_contained"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the names produced by String plus "contained" and "intersects".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "touching", "intersects", "":
		return Touching, nil
	case "fully_contained", "fully-contained", "contained":
		return FullyContained, nil
	default:
		return Touching, errors.Newf("unknown coverage mode %q", s)
	}
}
