package elastic

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"veginReco/pkg/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/pobyzaarif/goshortcute"
)

// NewElasticClient builds the search client and checks the cluster answers.
// API key auth takes precedence over basic auth when both are configured.
func NewElasticClient(ctx context.Context, cfg config.ElasticConfig) (*elasticsearch.Client, error) {
	return newClient(ctx, cfg, nil)
}

func newClient(ctx context.Context, cfg config.ElasticConfig, transport http.RoundTripper) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Transport: transport,
	}

	switch {
	case cfg.APIKeyID != "" && cfg.APIKey != "":
		esCfg.APIKey = goshortcute.StringtoBase64Encode(cfg.APIKeyID + ":" + cfg.APIKey)
	case cfg.APIKey != "":
		// already encoded
		esCfg.APIKey = cfg.APIKey
	case cfg.Username != "":
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	if esCfg.Transport == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		esCfg.Transport = &http.Transport{
			ResponseHeaderTimeout: timeout,
			MaxIdleConnsPerHost:   16,
		}
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := client.Ping(client.Ping.WithContext(pingCtx))
	if err != nil {
		return nil, fmt.Errorf("failed to reach elasticsearch at %s: %w", cfg.URL, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch ping returned %s", res.Status())
	}

	return client, nil
}
