package release

//go:generate mockgen -source=source.go -destination=mock_source.go -package=release

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultAPIURL is the GitHub REST API root.
	DefaultAPIURL = "https://api.github.com"
	// DefaultTimeout bounds a single releases request.
	DefaultTimeout = 10 * time.Second

	maxBodySize = 16 << 20
	userAgent   = "endlesspixel-launcher"
)

// Source fetches the current list of releases in source order.
type Source interface {
	Fetch(ctx context.Context) ([]Entry, error)
}

// GitHubSource fetches releases from the GitHub releases API.
type GitHubSource struct {
	apiURL     string
	owner      string
	repo       string
	trustStore string
	timeout    time.Duration
	logger     *slog.Logger

	mu       sync.RWMutex
	insecure bool
}

// Option configures a GitHubSource.
type Option func(*GitHubSource)

// WithAPIURL overrides the API root, mostly for tests and GitHub Enterprise.
func WithAPIURL(u string) Option {
	return func(s *GitHubSource) { s.apiURL = strings.TrimRight(u, "/") }
}

// WithTrustStore sets the CA bundle path used to verify the server.
func WithTrustStore(path string) Option {
	return func(s *GitHubSource) { s.trustStore = path }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *GitHubSource) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithInsecure sets the initial insecure mode.
func WithInsecure(insecure bool) Option {
	return func(s *GitHubSource) { s.insecure = insecure }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *GitHubSource) { s.logger = l }
}

// NewGitHubSource creates a source for owner/repo.
func NewGitHubSource(owner, repo string, opts ...Option) *GitHubSource {
	s := &GitHubSource{
		apiURL:  DefaultAPIURL,
		owner:   owner,
		repo:    repo,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the releases endpoint.
func (s *GitHubSource) URL() string {
	return fmt.Sprintf("%s/repos/%s/%s/releases", s.apiURL, url.PathEscape(s.owner), url.PathEscape(s.repo))
}

// Insecure reports whether certificate verification is disabled.
func (s *GitHubSource) Insecure() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.insecure
}

// SetInsecure enables or disables certificate verification for later fetches.
func (s *GitHubSource) SetInsecure(insecure bool) {
	s.mu.Lock()
	s.insecure = insecure
	s.mu.Unlock()
}

// Fetch performs one GET against the releases endpoint. It never retries.
func (s *GitHubSource) Fetch(ctx context.Context) ([]Entry, error) {
	pool, err := LoadTrustStore(s.trustStore)
	if err != nil {
		return nil, err
	}

	insecure := s.Insecure()
	if insecure {
		s.logger.Warn("certificate verification disabled", slog.String("url", s.URL()))
	}

	client := &http.Client{
		Timeout:   s.timeout,
		Transport: buildTransport(pool, insecure),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(), nil)
	if err != nil {
		return nil, newError(KindConfig, "invalid releases URL", goerr.Wrap(err, "failed to build request", goerr.V("url", s.URL())))
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	s.logger.Debug("releases response",
		slog.String("url", s.URL()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &Error{
			Kind:       KindRemote,
			Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, classifyTransportError(err)
	}

	return DecodeEntries(body)
}

func buildTransport(pool *x509.CertPool, insecure bool) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.TLSClientConfig = tlsConfig(pool, insecure)
	return t
}

// classifyTransportError maps a client.Do failure onto TLS or network kinds.
func classifyTransportError(err error) *Error {
	var (
		unknownAuthority x509.UnknownAuthorityError
		invalidCert      x509.CertificateInvalidError
		hostname         x509.HostnameError
		verification     *tls.CertificateVerificationError
	)
	if errors.As(err, &verification) ||
		errors.As(err, &unknownAuthority) ||
		errors.As(err, &invalidCert) ||
		errors.As(err, &hostname) {
		return newError(KindTLSVerification, "certificate verification failed", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newError(KindNetwork, "request timed out", err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newError(KindNetwork, "request cancelled", err)
	}
	return newError(KindNetwork, "connection failed", err)
}
