package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialect values accepted by the @bitfield annotation
const (
	OverlapAllow = "allow"
	OverlapDeny  = "deny"

	BoundsImplicit = "implicit"
	BoundsExplicit = "explicit"
)

// Annotation holds parsed @bitfield annotation. A field is empty when the
// annotation does not set it, leaving the choice to the caller's options.
type Annotation struct {
	Overlap string // "allow", "deny" or ""
	Bounds  string // "implicit", "explicit" or ""
}

var (
	annotationRe = regexp.MustCompile(`^@bitfield(?:\s+(.*))?$`)
	pairRe       = regexp.MustCompile(`^(\w+)=([\w-]+)$`)
)

// ParseAnnotation parses @bitfield annotation from comment text
//
// Expected format:
//
//	// @bitfield
//	// @bitfield overlap=deny
//	// @bitfield overlap=deny bounds=explicit
//
// Params are space-separated key=value pairs.
func ParseAnnotation(comment string) (*Annotation, error) {
	matches := annotationRe.FindStringSubmatch(strings.TrimSpace(comment))
	if matches == nil {
		return nil, fmt.Errorf("no @bitfield annotation found")
	}

	anno := &Annotation{}

	for _, param := range strings.Fields(matches[1]) {
		pair := pairRe.FindStringSubmatch(param)
		if pair == nil {
			return nil, fmt.Errorf("invalid parameter: %s", param)
		}
		key, value := pair[1], pair[2]

		switch key {
		case "overlap":
			if value != OverlapAllow && value != OverlapDeny {
				return nil, fmt.Errorf("overlap must be 'allow' or 'deny', got: %s", value)
			}
			anno.Overlap = value

		case "bounds":
			if value != BoundsImplicit && value != BoundsExplicit {
				return nil, fmt.Errorf("bounds must be 'implicit' or 'explicit', got: %s", value)
			}
			anno.Bounds = value

		default:
			return nil, fmt.Errorf("unknown parameter: %s", key)
		}
	}

	return anno, nil
}

// IsAnnotation reports whether a cleaned comment line starts a @bitfield
// block, valid or not.
func IsAnnotation(line string) bool {
	line = strings.TrimSpace(line)
	return line == "@bitfield" || strings.HasPrefix(line, "@bitfield ") || strings.HasPrefix(line, "@bitfield\t")
}

// FindAnnotation returns the first @bitfield annotation in comment lines and
// its index, or index -1 when there is none. The error reports a malformed
// annotation line.
func FindAnnotation(comments []string) (*Annotation, int, error) {
	for i, comment := range comments {
		if !IsAnnotation(comment) {
			continue
		}
		anno, err := ParseAnnotation(comment)
		return anno, i, err
	}
	return nil, -1, nil
}

// CleanComment removes comment markers from a line
// "// @bitfield overlap=deny" → "@bitfield overlap=deny"
// "/* @bitfield */" → "@bitfield"
func CleanComment(line string) string {
	line = strings.TrimSpace(line)

	if strings.HasPrefix(line, "//") {
		line = strings.TrimPrefix(line, "//")
		return strings.TrimSpace(line)
	}

	if strings.HasPrefix(line, "/*") && strings.HasSuffix(line, "*/") {
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")
		return strings.TrimSpace(line)
	}

	return line
}
