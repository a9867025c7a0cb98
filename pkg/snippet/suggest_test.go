package snippet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosestMatch(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		candidates []string
		want       string
		wantOK     bool
	}{
		{name: "one letter missing", input: "firs", candidates: []string{"first"}, want: "first", wantOK: true},
		{name: "case differs", input: "FIRST", candidates: []string{"first"}, want: "first", wantOK: true},
		{name: "closest of two", input: "firs", candidates: []string{"first", "first2"}, want: "first", wantOK: true},
		{name: "unrelated", input: "second", candidates: []string{"first"}},
		{name: "unrelated with several", input: "second", candidates: []string{"first", "first2"}},
		{name: "tie", input: "abcf", candidates: []string{"abcd", "abce"}},
		{name: "no candidates", input: "first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := closestMatch(tt.input, tt.candidates)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnknownSnippetError(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		stored []string
		want   string
	}{
		{
			name:   "invalid key",
			input:  "second",
			stored: []string{"first"},
			want:   `"second" is not a valid snippet identifier. Valid identifiers are "first".`,
		},
		{
			name:   "close match key",
			input:  "firs",
			stored: []string{"first"},
			want:   `"firs" is not a valid snippet identifier. Did you mean "first"?`,
		},
		{
			name:   "multiple existing snippets",
			input:  "second",
			stored: []string{"first", "first2"},
			want:   `"second" is not a valid snippet identifier. Valid identifiers are "first", "first2".`,
		},
		{
			name:   "tied candidates are listed",
			input:  "abcf",
			stored: []string{"abce", "abcd"},
			want:   `"abcf" is not a valid snippet identifier. Valid identifiers are "abce", "abcd".`,
		},
		{
			name:  "empty registry",
			input: "first",
			want:  `"first" is not a valid snippet identifier. Valid identifiers are .`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := unknownSnippetError(tt.input, tt.stored)
			assert.Equal(t, tt.want, err.Error())
			assert.Equal(t, KindUnknownSnippet, err.Kind)
			assert.Equal(t, tt.input, err.Name)
		})
	}
}
