package robots

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

const facebookStyleRobots = `User-agent: *
Disallow: /

User-agent: Googlebot
Disallow: /ajax/
Allow: /safetycheck/
`

func fixtureFetcher(body string) Fetcher {
	return func(ctx context.Context, host string) ([]byte, int, error) {
		return []byte(body), 200, nil
	}
}

func TestCanAccess_DisallowAllForWildcardAgent(t *testing.T) {
	cache := NewCache(fixtureFetcher(facebookStyleRobots))
	assert.False(t, cache.CanAccess(context.Background(), "facebook.com", "/", "*"))
}

func TestCanAccess_PerAgentOverridesWildcard(t *testing.T) {
	cache := NewCache(fixtureFetcher(facebookStyleRobots))
	assert.True(t, cache.CanAccess(context.Background(), "facebook.com", "/safetycheck/", "Googlebot"))
	assert.False(t, cache.CanAccess(context.Background(), "facebook.com", "/ajax/", "Googlebot"))
}

func TestCanAccess_MissingRobotsAllowsEverything(t *testing.T) {
	cache := NewCache(func(ctx context.Context, host string) ([]byte, int, error) {
		return nil, 404, nil
	})
	assert.True(t, cache.CanAccess(context.Background(), "example.com", "/anything", "*"))
}

func TestCanAccess_FetchedOncePerHost(t *testing.T) {
	calls := 0
	cache := NewCache(func(ctx context.Context, host string) ([]byte, int, error) {
		calls++
		return []byte(facebookStyleRobots), 200, nil
	})

	cache.CanAccess(context.Background(), "facebook.com", "/", "*")
	cache.CanAccess(context.Background(), "facebook.com", "/other", "*")
	cache.CanAccess(context.Background(), "facebook.com", "/third", "Googlebot")

	assert.Equal(t, 1, calls)
}
