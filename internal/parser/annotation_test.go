package parser

import (
	"testing"
)

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		comment     string
		wantOverlap string
		wantBounds  string
		wantErr     bool
	}{
		// Valid annotations
		{"@bitfield", "", "", false}, // unset params defer to options
		{"@bitfield overlap=deny", "deny", "", false},
		{"@bitfield bounds=explicit", "", "explicit", false},
		{"@bitfield overlap=deny bounds=explicit", "deny", "explicit", false},
		{"@bitfield bounds=explicit overlap=allow", "allow", "explicit", false}, // Order doesn't matter
		{"  @bitfield  ", "", "", false},

		// Error cases
		{"", "", "", true},                           // no annotation
		{"overlap=deny", "", "", true},               // missing @bitfield
		{"@bitfields", "", "", true},                 // different word
		{"@bitfield overlap=maybe", "", "", true},    // invalid overlap
		{"@bitfield bounds=none", "", "", true},      // invalid bounds
		{"@bitfield endian=big", "", "", true},       // unknown param
		{"@bitfield overlap", "", "", true},          // missing value
		{"see @bitfield overlap=deny", "", "", true}, // not at line start
	}

	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			got, err := ParseAnnotation(tt.comment)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseAnnotation(%q) expected error, got nil", tt.comment)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseAnnotation(%q) unexpected error: %v", tt.comment, err)
			}

			if got.Overlap != tt.wantOverlap {
				t.Errorf("ParseAnnotation(%q).Overlap = %q, want %q", tt.comment, got.Overlap, tt.wantOverlap)
			}

			if got.Bounds != tt.wantBounds {
				t.Errorf("ParseAnnotation(%q).Bounds = %q, want %q", tt.comment, got.Bounds, tt.wantBounds)
			}
		})
	}
}

func TestIsAnnotation(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"@bitfield", true},
		{"  @bitfield overlap=deny", true},
		{"@bitfield overlap=bogus", true},
		{"@bitfield\tbounds=explicit", true},
		{"@bitfieldx", false},
		{"bitfield", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsAnnotation(tt.line); got != tt.want {
			t.Errorf("IsAnnotation(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestCleanComment(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"// @bitfield overlap=deny", "@bitfield overlap=deny"},
		{"  //   @bitfield overlap=deny  ", "@bitfield overlap=deny"},
		{"/* @bitfield */", "@bitfield"},
		{"  /*  @bitfield bounds=explicit  */  ", "@bitfield bounds=explicit"},
		{"@bitfield", "@bitfield"}, // no markers
		{"", ""},
	}

	for _, tt := range tests {
		got := CleanComment(tt.input)
		if got != tt.want {
			t.Errorf("CleanComment(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFindAnnotation(t *testing.T) {
	tests := []struct {
		name        string
		comments    []string
		wantOverlap string
		wantIndex   int
		wantErr     bool
	}{
		{
			name: "found in first line",
			comments: []string{
				"@bitfield overlap=deny",
				"other comment",
			},
			wantOverlap: "deny",
			wantIndex:   0,
		},
		{
			name: "found in second line",
			comments: []string{
				"Status register",
				"@bitfield",
			},
			wantOverlap: "",
			wantIndex:   1,
		},
		{
			name: "not found",
			comments: []string{
				"Just a comment",
				"Another comment",
			},
			wantIndex: -1,
		},
		{
			name:      "empty comments",
			comments:  []string{},
			wantIndex: -1,
		},
		{
			name: "malformed",
			comments: []string{
				"@bitfield overlap=maybe",
			},
			wantIndex: 0,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, idx, err := FindAnnotation(tt.comments)

			if idx != tt.wantIndex {
				t.Errorf("FindAnnotation() index = %d, want %d", idx, tt.wantIndex)
			}
			if tt.wantErr {
				if err == nil {
					t.Error("FindAnnotation() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("FindAnnotation() unexpected error: %v", err)
			}

			if tt.wantIndex < 0 {
				if got != nil {
					t.Errorf("FindAnnotation() = %+v, want nil", got)
				}
				return
			}
			if got.Overlap != tt.wantOverlap {
				t.Errorf("FindAnnotation().Overlap = %q, want %q", got.Overlap, tt.wantOverlap)
			}
		})
	}
}
