package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/etnz/fcn/logger"
)

// loggingTransport logs every round trip at debug level.
type loggingTransport struct {
	base http.RoundTripper
	log  *logger.Log
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	entry := t.log.WithComponent("http").WithFields(logger.Fields{
		"method":   req.Method,
		"host":     req.URL.Host,
		"path":     req.URL.Path,
		"duration": time.Since(start).Round(time.Millisecond).String(),
	})
	if err != nil {
		entry.WithError(err).Debug("request failed")
		return nil, err
	}
	entry.WithFields(logger.Fields{"status": resp.StatusCode}).Debug("request")
	return resp, nil
}

// FetchJSON fetches target like FetchText and unmarshals the JSON response
// into data.
func (f *Fetcher) FetchJSON(ctx context.Context, target string, data any) error {
	text, err := f.FetchText(ctx, target)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), data); err != nil {
		return fmt.Errorf("cannot decode %s: %w", target, err)
	}
	return nil
}
