// Package httpclient builds the shared HTTP client the download engine,
// version resolver and installers all use: DNS-cached dialing, HTTP/2,
// and a retryable wrapper around the whole thing. Grounded on the
// teacher's util.go (NewHttpClient/dnscache/http2.ConfigureTransport),
// generalised from a single hard-coded client into a configurable one.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/viki-org/dnscache"
	"golang.org/x/net/http2"
)

const (
	connTimeout         = 5 * time.Second
	dnsCacheTTL         = 15 * time.Minute
	idlePoolTimeout     = 60 * time.Second
	defaultMaxPerHost   = 200
	defaultUserAgentFmt = "ConicApps/%s"
)

var resolver = dnscache.New(dnsCacheTTL)

// Options configures the shared client. Zero value yields production
// defaults.
type Options struct {
	// AppVersion is embedded in the User-Agent header.
	AppVersion string
	// NoProxy disables honoring HTTP_PROXY/HTTPS_PROXY environment
	// variables, for users who explicitly opt out of proxy detection.
	NoProxy bool
	// MaxIdleConnsPerHost bounds the connection pool per host.
	MaxIdleConnsPerHost int
	// FollowRedirects controls whether 3xx responses are auto-followed.
	FollowRedirects bool
}

// Client wraps a retryable HTTP client plus the bare *http.Client some
// callers (range requests, streaming downloads) need directly.
type Client struct {
	Retryable *retryablehttp.Client
	Raw       *http.Client
	userAgent string
}

// New builds a Client from opts, dialing through the shared DNS cache
// and negotiating HTTP/2 where available.
func New(opts Options) *Client {
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = defaultMaxPerHost
	}
	if opts.AppVersion == "" {
		opts.AppVersion = "dev"
	}

	transport := &http.Transport{
		MaxIdleConnsPerHost:   opts.MaxIdleConnsPerHost,
		IdleConnTimeout:       idlePoolTimeout,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 10 * time.Second,
		DialContext:           dialWithCache,
	}
	if !opts.NoProxy {
		transport.Proxy = http.ProxyFromEnvironment
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		// HTTP/2 is an enhancement; fall back to HTTP/1.1 transport silently.
		_ = err
	}

	raw := &http.Client{Transport: transport}
	if !opts.FollowRedirects {
		raw.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = raw
	rc.Logger = nil
	rc.RetryWaitMin = 250 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.RetryMax = 3

	return &Client{
		Retryable: rc,
		Raw:       raw,
		userAgent: fmt.Sprintf(defaultUserAgentFmt, opts.AppVersion),
	}
}

// UserAgent returns the header value this client stamps on requests.
func (c *Client) UserAgent() string { return c.userAgent }

// Get issues a GET with the client's User-Agent set, via the
// retryable client.
func (c *Client) Get(url string) (*http.Response, error) {
	req, err := retryablehttp.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	return c.Retryable.Do(req)
}

// Do executes a pre-built request (e.g. carrying a Range header) via
// the raw client, stamping the shared User-Agent if unset. Range
// requests bypass the retryable wrapper — per-chunk retry is the
// download engine's own responsibility (spec.md §4.5.2).
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.Raw.Do(req)
}

// NewBearerGet builds a GET request carrying an OAuth bearer header,
// the shape every api.minecraftservices.com call in the account
// package needs.
func NewBearerGet(rawURL, bearerToken string) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// NewFormPost builds a application/x-www-form-urlencoded POST, the
// shape login.live.com's token endpoint expects.
func NewFormPost(rawURL string, form url.Values) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// NewJSONPost builds a JSON POST, the shape the Xbox/XSTS/Minecraft
// auth endpoints expect.
func NewJSONPost(rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodPost, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-xbl-contract-version", "1")
	return req, nil
}

func dialWithCache(ctx context.Context, network, address string) (net.Conn, error) {
	separator := strings.LastIndex(address, ":")
	if separator < 0 {
		return (&net.Dialer{Timeout: connTimeout}).DialContext(ctx, network, address)
	}
	host, port := address[:separator], address[separator:]
	ip, err := resolver.FetchOne(host)
	if err != nil {
		return (&net.Dialer{Timeout: connTimeout}).DialContext(ctx, network, address)
	}
	ipStr := ip.String()
	if ip.To4() == nil {
		ipStr = "[" + ipStr + "]"
	}
	return (&net.Dialer{Timeout: connTimeout}).DialContext(ctx, network, ipStr+port)
}
