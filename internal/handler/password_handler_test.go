package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"passvault/internal/service"
)

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"20", 20, true},
		{"20abc", 20, true},
		{"  12", 12, true},
		{"+7", 7, true},
		{"-3", -3, true},
		{"1e3", 1, true},
		{"99999999999999999999", service.MaxLength + 1, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := leadingInt(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
