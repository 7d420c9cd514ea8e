package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `
<html>
<head><title>  Test Page  </title>
<style>body { color: red; }</style>
</head>
<body>
<script>var x = 1;</script>
<p>Hello world, this is a test.</p>
<a href="/about">About Us</a>
<a href="https://other.example/page">  Other Site  </a>
<a href="#top"></a>
</body>
</html>`

func TestExtractHyperlinks_ReturnsHrefAndAnchorText(t *testing.T) {
	links, err := ExtractHyperlinks(sampleHTML)
	require.NoError(t, err)
	require.Len(t, links, 3)

	assert.Equal(t, "/about", links[0].Href)
	assert.Equal(t, "About Us", links[0].AnchorText)

	assert.Equal(t, "https://other.example/page", links[1].Href)
	assert.Equal(t, "Other Site", links[1].AnchorText)

	assert.Equal(t, "#top", links[2].Href)
	assert.Equal(t, "", links[2].AnchorText)
}

func TestExtractText_DropsScriptAndStyle(t *testing.T) {
	text, err := ExtractText(sampleHTML)
	require.NoError(t, err)

	assert.Contains(t, text, "Hello world, this is a test.")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "var x = 1")
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Test Page", ExtractTitle(sampleHTML))
}

func TestExtractTitle_MissingReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", ExtractTitle("<html><body>no title here</body></html>"))
}
