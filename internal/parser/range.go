package parser

import (
	"fmt"
	"strings"
)

// ParseRange parses a standalone bit range such as "0..4", "4..", "..=7" or
// "0x8..0x10". Used by front ends that carry the range as a string.
//
// Semantics:
//   - "a..b"  : bits a up to but not including b
//   - "a..=b" : bits a through b
//   - "a.."   : bits a through the end of the container
//   - "..b"   : bits 0 up to but not including b
//   - ".."    : the whole container
func ParseRange(s string) (RangeExpr, error) {
	r := RangeExpr{Start: -1, End: -1}

	s = strings.TrimSpace(s)
	if s == "" {
		return r, fmt.Errorf("%w: empty range", ErrSyntax)
	}

	i := strings.Index(s, "..")
	if i < 0 {
		return r, fmt.Errorf("%w: invalid range %q: missing '..'", ErrSyntax, s)
	}
	lo, hi := strings.TrimSpace(s[:i]), s[i+2:]
	if strings.HasPrefix(hi, "=") {
		r.Inclusive = true
		hi = hi[1:]
	}
	hi = strings.TrimSpace(hi)

	if lo != "" {
		n, err := parseInt(lo)
		if err != nil {
			return r, fmt.Errorf("%w: invalid range bound %q", ErrSyntax, lo)
		}
		r.Start = n
	}

	if hi != "" {
		n, err := parseInt(hi)
		if err != nil {
			return r, fmt.Errorf("%w: invalid range bound %q", ErrSyntax, hi)
		}
		r.End = n
	} else if r.Inclusive {
		return r, fmt.Errorf("%w: closed range %q requires an end bound", ErrSyntax, s)
	}

	return r, nil
}
