package geocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "diacritics", in: "Bhīmtāl", want: "Bhimtal"},
		{name: "precomposed and spaces", in: "  São   Tomé\t", want: "Sao Tome"},
		{name: "plain", in: "Manali", want: "Manali"},
		{name: "empty", in: "", want: ""},
		{name: "only whitespace", in: " \n\t ", want: ""},
		{name: "devanagari kept", in: "दिल्ली", want: "दिल्ली"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}
