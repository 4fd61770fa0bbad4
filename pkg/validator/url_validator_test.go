package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid https", "https://example.com/a", false},
		{"valid http", "http://example.com", false},
		{"with query", "https://example.com/path?a=1&b=2", false},
		{"empty", "", true},
		{"missing scheme", "example.com/a", true},
		{"unsupported scheme", "ftp://example.com", true},
		{"javascript scheme", "javascript:alert(1)", true},
		{"no host", "https://", true},
		{"too long", "https://example.com/" + strings.Repeat("a", 2048), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAlias(t *testing.T) {
	assert.True(t, ValidateAlias("my-alias"))
	assert.True(t, ValidateAlias("my_alias_2"))
	assert.True(t, ValidateAlias("abc"))
	assert.False(t, ValidateAlias("ab"), "too short")
	assert.False(t, ValidateAlias(strings.Repeat("a", 31)), "too long")
	assert.False(t, ValidateAlias("has space"))
	assert.False(t, ValidateAlias("has/slash"))
	assert.False(t, ValidateAlias("dots.not.allowed"))
}

func TestNormalizeAlias(t *testing.T) {
	assert.Equal(t, "myalias", NormalizeAlias("MyAlias"))
	assert.Equal(t, "my-alias", NormalizeAlias("  My-Alias  "))
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com/Path", NormalizeURL("HTTPS://EXAMPLE.COM/Path"))
	assert.Equal(t, "https://example.com/a", NormalizeURL("https://Example.Com/a"))
}
