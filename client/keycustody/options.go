package keycustody

import (
	"fmt"
	"net/http"

	"github.com/storacha/go-scitt/identity"
)

// APIKeyHeader is the header carrying the API key.
const APIKeyHeader = "x-api-key"

// Option is an option configuring a key custody client.
type Option func(cfg *clientConfig) error

type clientConfig struct {
	apiKey string
	client *http.Client
	cache  identity.Cache
}

// WithAPIKey sets the API key sent with every request.
func WithAPIKey(key string) Option {
	return func(cfg *clientConfig) error {
		if key == "" {
			return fmt.Errorf("API key must not be empty")
		}
		cfg.apiKey = key
		return nil
	}
}

// WithHTTPClient configures the HTTP client used to talk to the service.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.client = c
		return nil
	}
}

// WithIdentityCache configures where retrieved identities are cached. By
// default an in memory LRU of [identity.MemoryCacheSize] entries is used.
func WithIdentityCache(cache identity.Cache) Option {
	return func(cfg *clientConfig) error {
		cfg.cache = cache
		return nil
	}
}
