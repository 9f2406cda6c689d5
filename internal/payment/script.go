package payment

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"context"
)

// HTTPScriptLoader acquires the provider SDK script by fetching it over
// HTTP. The fetch has deliberately no timeout of its own beyond the
// transport default; the embedded adapter treats a load that never
// completes as "embedded checkout unavailable".
type HTTPScriptLoader struct {
	url    string
	client *http.Client
}

// NewHTTPScriptLoader creates a loader for the given script URL.
func NewHTTPScriptLoader(url string) *HTTPScriptLoader {
	return &HTTPScriptLoader{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Load fetches the script once. The body is drained and discarded; the
// point is confirming the provider serves it for our configuration.
func (l *HTTPScriptLoader) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create script request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch provider script: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider script fetch returned status %d", resp.StatusCode)
	}

	return nil
}
