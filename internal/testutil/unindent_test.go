package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnindent(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "blank lines only", in: "\n\n", want: ""},
		{
			name: "tabs",
			in:   "\n\t\tspell \"a\" {\n\t\t  description = \"x\"\n\n\t\t}\n\t",
			want: "spell \"a\" {\n  description = \"x\"\n\n}\n",
		},
		{name: "no indent", in: "a\n b", want: "a\n b\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Act ---
			got := Unindent(tc.in)

			// --- Assert ---
			assert.Equal(t, tc.want, got)
		})
	}
}
