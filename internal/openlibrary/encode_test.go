package openlibrary

import (
	"net/url"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestEncodeQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "unreserved passthrough", input: "Dune-2_v1.0~x", want: "Dune-2_v1.0~x"},
		{name: "space and punctuation", input: "sci-fi, vol.1", want: "sci-fi%2C%20vol.1"},
		{name: "reserved characters", input: "a&b=c?d", want: "a%26b%3Dc%3Fd"},
		{name: "utf8 bytes escaped individually", input: "ä", want: "%C3%A4"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encodeQuery(tt.input))
		})
	}
}

func TestEncodeQueryRoundTrips(t *testing.T) {
	inputs := []string{
		"sci-fi, vol.1",
		"the left hand of darkness",
		"100% true stories & more",
		"Mäkelä",
	}

	for _, input := range inputs {
		decoded, err := url.PathUnescape(encodeQuery(input))
		assert.NoError(t, err)
		assert.Equal(t, input, decoded)
	}
}
