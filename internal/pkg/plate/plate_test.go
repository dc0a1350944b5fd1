//go:build unit

package plate_test

import (
	"testing"

	"parkgate/internal/pkg/plate"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase with dash", in: "ab-123cd", want: "AB123CD"},
		{name: "spaces and dots", in: " ab 123.cd ", want: "AB123CD"},
		{name: "already normalized", in: "AB123CD", want: "AB123CD"},
		{name: "empty", in: "", want: ""},
		{name: "punctuation only", in: "--..", want: ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, plate.Normalize(c.in))
		})
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, plate.IsValid("AB123CD"))
	assert.False(t, plate.IsValid(""))
	assert.False(t, plate.IsValid("A"))
	assert.False(t, plate.IsValid("ABCDEFGHIJKLMNOPQ"))
}
