package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Getting Started", "getting-started"},
		{"API  Guide", "api-guide"},
		{"Hello, World!", "hello-world"},
		{"  trimmed  ", "trimmed"},
		{"Ünïcödé Title", "n-c-d-title"},
		{"v2.0 Release Notes", "v2-0-release-notes"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}
