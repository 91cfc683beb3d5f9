package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/manifestwatch/internal/domain/repositories"
)

const (
	userAgent = "manifestwatch"
	// maxManifestSize bounds the body read; published manifests are a few hundred KiB.
	maxManifestSize = 64 << 20
)

// HTTPManifestRepository implements repositories.ManifestRepository over HTTP(S).
// A single GET is issued; retries are left to the pipeline.
type HTTPManifestRepository struct {
	client  *http.Client
	maxSize int64
}

// NewHTTPManifestRepository creates a fetcher whose requests time out after timeout
// (zero disables the timeout).
func NewHTTPManifestRepository(timeout time.Duration) repositories.ManifestRepository {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = timeout
	return NewHTTPManifestRepositoryWithClient(client)
}

// NewHTTPManifestRepositoryWithClient creates a fetcher on a custom HTTP client.
func NewHTTPManifestRepositoryWithClient(client *http.Client) *HTTPManifestRepository {
	return &HTTPManifestRepository{client: client, maxSize: maxManifestSize}
}

// WithMaxSize overrides the largest accepted body, in bytes.
func (it *HTTPManifestRepository) WithMaxSize(maxSize int64) *HTTPManifestRepository {
	it.maxSize = maxSize
	return it
}

func (it *HTTPManifestRepository) Fetch(ctx context.Context, location string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest URL %q: %w", location, err)
	}
	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Accept", "application/json")

	logger.Debugf("Downloading manifest from %s", location)
	response, err := it.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to download manifest %q: %w", location, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("failed to download manifest %q: unexpected status %s", location, response.Status)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, it.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", location, err)
	}
	if int64(len(body)) > it.maxSize {
		return nil, fmt.Errorf("manifest %q exceeds %d bytes", location, it.maxSize)
	}
	return body, nil
}
