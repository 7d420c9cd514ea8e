package urlnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_LowercasesSchemeAndHost(t *testing.T) {
	got, err := Normalize("HTTP://Example.COM/Path", "")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/Path", got)
}

func TestNormalize_ResolvesAgainstReferer(t *testing.T) {
	got, err := Normalize("/about", "https://example.com/blog/post")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/about", got)
}

func TestNormalize_StripsFragmentAndTrailingSlash(t *testing.T) {
	got, err := Normalize("https://example.com/path/#section", "")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path", got)
}

func TestNormalize_DecodesUnreservedOctets(t *testing.T) {
	got, err := Normalize("https://example.com/%7Euser", "")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/~user", got)
}

func TestNormalize_KeepsReservedEscapes(t *testing.T) {
	got, err := Normalize("https://example.com/a%2Fb", "")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a%2Fb", got)
}

func TestNormalize_RejectsIgnoredSchemes(t *testing.T) {
	for _, href := range []string{"mailto:a@b.com", "javascript:void(0)", "tel:+123", "#top"} {
		_, err := Normalize(href, "https://example.com")
		require.Error(t, err)
		assert.True(t, ErrIgnored(err))
	}
}

func TestNormalize_TwoEquivalentURLsAreByteEqual(t *testing.T) {
	a, err := Normalize("HTTPS://Example.com/page/", "")
	require.NoError(t, err)
	b, err := Normalize("https://example.com/page#frag", "")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHost(t *testing.T) {
	assert.Equal(t, "example.com", Host("https://example.com/path"))
}
