// Package fetch downloads published spreadsheets as text.
//
// Spreadsheet hosts are often unreachable from where the tool runs (CORS,
// corporate proxies, rate limits), so a Fetcher tries an ordered list of
// strategies: public relays first, then the direct URL. The first success
// wins, and only when every strategy failed is an error returned.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/etnz/fcn/config"
	"github.com/etnz/fcn/logger"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/time/rate"
)

// maxBody bounds the size of a downloaded sheet. Larger responses fail the
// attempt rather than being cut.
var maxBody = 32 << 20

// Fetcher retrieves remote text through a chain of strategies.
type Fetcher struct {
	Client     *http.Client
	Strategies []Strategy
	Timeout    time.Duration // per attempt, none when zero
	UserAgent  string
	Limiter    *rate.Limiter // paces attempts, nil for no limit
	Log        *logger.Log

	now func() time.Time
}

// New returns a Fetcher configured by cfg. Log may be nil.
func New(cfg config.FetchConfig, log *logger.Log) (*Fetcher, error) {
	strategies := DefaultStrategies()
	if len(cfg.Proxies) > 0 {
		var err error
		if strategies, err = StrategiesByName(cfg.Proxies); err != nil {
			return nil, err
		}
	}
	f := &Fetcher{
		Strategies: strategies,
		Timeout:    time.Duration(cfg.Timeout),
		UserAgent:  cfg.UserAgent,
		Log:        log,
	}
	if f.Log == nil {
		f.Log = logger.Discard()
	}
	f.Client = &http.Client{Transport: &loggingTransport{base: http.DefaultTransport, log: f.Log}}
	if cfg.RatePerSecond > 0 {
		f.Limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), max(cfg.Burst, 1))
	}
	return f, nil
}

// FetchText returns the content at target as UTF-8 text.
//
// Each strategy is tried in turn on target with a cache-busting parameter
// added. An attempt fails on a network error, a non 2xx status, a timeout
// or a body that is not UTF-8, and the next strategy is tried. A login page
// stops the chain at once since every relay would return the same page.
// Cancelling ctx stops the chain with ctx's error.
func (f *Fetcher) FetchText(ctx context.Context, target string) (string, error) {
	log := f.log().WithComponent("fetch")
	busted, err := cacheBust(target, f.clock())
	if err != nil {
		return "", err
	}

	fail := &Error{URL: target}
	for _, s := range f.Strategies {
		if f.Limiter != nil {
			if err := f.Limiter.Wait(ctx); err != nil {
				return "", fmt.Errorf("cannot fetch %s: %w", target, err)
			}
		}
		text, err := f.attempt(ctx, s.Rewrite(busted))
		if err == nil && isAuthWall(text) {
			err = ErrAuthWall
			fail.AuthWall = true
		}
		if err == nil {
			log.WithFields(logger.Fields{"strategy": s.Name, "bytes": len(text)}).Debug("fetched")
			return text, nil
		}
		log.WithFields(logger.Fields{"strategy": s.Name, "url": target}).WithError(err).Warn("fetch attempt failed")
		fail.Attempts = append(fail.Attempts, Attempt{Strategy: s.Name, Err: err})
		if ctx.Err() != nil {
			return "", fmt.Errorf("cannot fetch %s: %w", target, context.Cause(ctx))
		}
		if fail.AuthWall {
			break
		}
	}
	return "", fail
}

// attempt performs a single bounded GET.
func (f *Fetcher) attempt(ctx context.Context, addr string) (string, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	if isLoginHost(resp.Request.URL) {
		return "", ErrAuthWall
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxBody)+1))
	if err != nil {
		return "", err
	}
	if len(raw) > maxBody {
		return "", fmt.Errorf("response too large: more than %d bytes", maxBody)
	}
	return decodeUTF8(raw)
}

// decodeUTF8 reads raw as UTF-8 whatever the announced charset, dropping a
// leading byte order mark.
func decodeUTF8(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", errors.New("response is not valid UTF-8")
	}
	text, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// cacheBust adds a _t parameter holding the current time in milliseconds.
func cacheBust(target string, now time.Time) (string, error) {
	u, err := url.Parse(strings.TrimSpace(target))
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", target, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid url %q: want http or https", target)
	}
	q := u.Query()
	q.Set("_t", strconv.FormatInt(now.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

var authMarkers = [][]byte{[]byte("accounts.google.com"), []byte("ServiceLogin")}

// isAuthWall reports whether text is a login page rather than data.
func isAuthWall(text string) bool {
	head := []byte(strings.TrimSpace(text))
	if !bytes.HasPrefix(head, []byte("<")) || bytes.Contains(bytes.ToLower(head), []byte("<table")) {
		return false
	}
	for _, m := range authMarkers {
		if bytes.Contains(head, m) {
			return true
		}
	}
	return false
}

func isLoginHost(u *url.URL) bool {
	return u.Host == "accounts.google.com" || strings.Contains(u.Path, "ServiceLogin")
}

func (f *Fetcher) log() *logger.Log {
	if f.Log == nil {
		return logger.Discard()
	}
	return f.Log
}

func (f *Fetcher) clock() time.Time {
	if f.now == nil {
		return time.Now()
	}
	return f.now()
}
