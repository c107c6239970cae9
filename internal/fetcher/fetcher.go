package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/MirrorChyan/dxvk-manager/internal/metrics"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/bufpool"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/filehash"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultTimeout      = 3 * time.Minute
	DefaultUserAgent    = "DXVK-Manager-App"
	DefaultMaxRedirects = 10
)

type Config struct {
	Timeout       time.Duration
	UnpackTimeout time.Duration
	UserAgent     string
	MaxRedirects  int
}

// Fetcher downloads release archives and unpacks them.
type Fetcher struct {
	logger     *zap.Logger
	cfg        Config
	client     *http.Client
	strategies []Strategy
}

type Option func(*Fetcher)

// WithStrategies replaces the default extraction strategies.
func WithStrategies(strategies ...Strategy) Option {
	return func(f *Fetcher) {
		f.strategies = strategies
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

func New(logger *zap.Logger, cfg Config, opts ...Option) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}
	f := &Fetcher{
		logger:     logger,
		cfg:        cfg,
		client:     &http.Client{},
		strategies: DefaultStrategies(),
	}
	for _, opt := range opts {
		opt(f)
	}
	// redirects are followed by hand so they can be counted and logged
	f.client.CheckRedirect = func(_ *http.Request, _ []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return f
}

func (f *Fetcher) UserAgent() string {
	return f.cfg.UserAgent
}

// Get performs a GET with the client header and redirect handling and
// returns the final 2xx response. The caller closes the body.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	current := rawURL
	for hop := 0; ; hop++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
		if err != nil {
			return nil, errs.ErrNetworkFailure.WithMessage("invalid url %s", current).Wrap(err)
		}
		req.Header.Set("User-Agent", f.cfg.UserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, errs.ErrNetworkFailure.WithMessage("request %s failed", current).Wrap(err)
		}

		if isRedirect(resp.StatusCode) {
			location := resp.Header.Get("Location")
			_ = resp.Body.Close()
			if location == "" {
				return nil, errs.ErrNetworkFailure.WithMessage("redirect from %s without location", current)
			}
			if hop >= f.cfg.MaxRedirects {
				return nil, errs.ErrNetworkFailure.WithMessage("too many redirects fetching %s", rawURL)
			}
			next, err := resolveLocation(resp.Request.URL, location)
			if err != nil {
				return nil, errs.ErrNetworkFailure.WithMessage("bad redirect location %q", location).Wrap(err)
			}
			f.logger.Debug("Following redirect",
				zap.String("from", current),
				zap.String("to", next),
			)
			current = next
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_ = resp.Body.Close()
			return nil, errs.ErrNetworkFailure.WithMessage("request failed with status code %d", resp.StatusCode)
		}
		return resp, nil
	}
}

// Fetch downloads rawURL into dest. Any previous file at dest is removed
// first, and a failed download never leaves a partial file behind.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, dest string) (err error) {
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove stale %s", dest)
	}
	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(dest))
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	defer func() {
		metrics.Downloads.WithLabelValues(metrics.Result(err == nil)).Inc()
		if err != nil {
			if rmErr := os.Remove(dest); rmErr != nil && !os.IsNotExist(rmErr) {
				f.logger.Warn("Failed to remove partial download",
					zap.String("file", dest),
					zap.Error(rmErr),
				)
			}
		}
	}()

	start := time.Now()
	resp, err := f.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer func(resp *http.Response) {
		_ = resp.Body.Close()
	}(resp)

	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(err, "create %s", dest)
	}
	n, err := bufpool.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if ctx.Err() != nil {
			return errs.ErrNetworkFailure.WithMessage("download of %s timed out", filepath.Base(dest)).Wrap(err)
		}
		return errs.ErrNetworkFailure.WithMessage("download of %s interrupted", filepath.Base(dest)).Wrap(err)
	}
	metrics.DownloadBytes.Add(float64(n))

	fields := []zap.Field{
		zap.String("url", rawURL),
		zap.String("file", dest),
		zap.Int64("bytes", n),
		zap.Duration("duration", time.Since(start)),
	}
	if sum, hashErr := filehash.Calculate(dest); hashErr == nil {
		fields = append(fields, zap.String("sha256", sum))
	}
	f.logger.Info("Download complete", fields...)
	return nil
}

func isRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func resolveLocation(base *url.URL, location string) (string, error) {
	ref, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	if base == nil {
		if !ref.IsAbs() {
			return "", fmt.Errorf("relative location without base")
		}
		return ref.String(), nil
	}
	return base.ResolveReference(ref).String(), nil
}
