package search

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewClientConfig_Timeout(t *testing.T) {
	t.Parallel()

	t.Run("default client", func(t *testing.T) {
		t.Parallel()
		cfg := newClientConfig(DefaultArxivURL, 0, nil)
		assert.Equal(t, defaultTimeout, cfg.client.Timeout)
	})

	t.Run("timeout option", func(t *testing.T) {
		t.Parallel()
		cfg := newClientConfig(DefaultArxivURL, 0, []Option{WithTimeout(5 * time.Second)})
		assert.Equal(t, 5*time.Second, cfg.client.Timeout)
	})

	t.Run("given client keeps its timeout", func(t *testing.T) {
		t.Parallel()
		own := &http.Client{Timeout: 42 * time.Second}
		cfg := newClientConfig(DefaultArxivURL, 0, []Option{WithHTTPClient(own)})
		assert.Equal(t, 42*time.Second, cfg.client.Timeout)
	})

	t.Run("given client is never modified", func(t *testing.T) {
		t.Parallel()
		own := &http.Client{Timeout: 42 * time.Second}
		for _, opts := range [][]Option{
			{WithHTTPClient(own), WithTimeout(time.Second)},
			{WithTimeout(time.Second), WithHTTPClient(own)},
		} {
			cfg := newClientConfig(DefaultWebURL, 0, opts)
			assert.Equal(t, time.Second, cfg.client.Timeout, "option order must not matter")
			assert.NotSame(t, own, cfg.client)
		}
		assert.Equal(t, 42*time.Second, own.Timeout)
	})
}

func TestNewArxivClient_DefaultClientUntouched(t *testing.T) {
	before := http.DefaultClient.Timeout

	_ = NewArxivClient(WithHTTPClient(http.DefaultClient), WithTimeout(time.Millisecond))
	_ = NewDuckDuckGoClient(WithTimeout(time.Millisecond), WithHTTPClient(http.DefaultClient))

	assert.Equal(t, before, http.DefaultClient.Timeout)
}
