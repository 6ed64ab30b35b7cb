package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAssetPath(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{path: "/assets/app.js", expected: true},
		{path: "/assets/asc/slayer.png", expected: true},
		{path: "/favicon.ico", expected: true},
		{path: "/robots.txt", expected: true},
		{path: "/manifest.json", expected: true},
		{path: "/app.JS", expected: true},
		{path: "/styles.css", expected: true},
		{path: "/u/nina.PNG", expected: false},
		{path: "/u/john.css", expected: false},
		{path: "/u/john.css/abc", expected: false},
		{path: "/api/internal/user/john.css", expected: false},
		{path: "/oembed.json", expected: false},
		{path: "/abc123/json", expected: false},
		{path: "/abc123", expected: false},
		{path: "/", expected: false},
		{path: "", expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsAssetPath(tc.path))
		})
	}
}

func TestAscendancyImageAndColor(t *testing.T) {
	assert.Equal(t, "/assets/asc/slayer.png", AscendancyImage(" Slayer "))
	assert.Equal(t, "", AscendancyImage("unknown"))
	assert.Equal(t, "#c07a3e", AscendancyColor("Slayer"))
	assert.Equal(t, "#3a9fb3", AscendancyColor("witch"))
	assert.Equal(t, "", AscendancyColor(""))
}
