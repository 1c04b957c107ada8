// Package update fetches patch definitions from the update server.
//
// The server publishes two files per version tag: <name>_<tag>.md5 holding
// the MD5 of the current definitions, and <name>_<tag>.def holding the
// definitions themselves.
package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/eternalmods/eternalpatcher/internal/checksum"
	"github.com/eternalmods/eternalpatcher/internal/fsutil"
)

const (
	// maxDefinitionsSize is the maximum decompressed definitions size (16 MiB).
	maxDefinitionsSize = 16 * 1024 * 1024

	// maxMarkerSize bounds the marker response.
	maxMarkerSize = 1024

	// userAgentPrefix is the User-Agent header prefix.
	userAgentPrefix = "eternalpatcher/"
)

// ErrTooLarge is returned when a response exceeds its size limit.
var ErrTooLarge = errors.New("update: response too large")

// Client talks to the update server.
type Client struct {
	httpClient *http.Client
	transport  *http.Transport
	baseURL    string
	cfg        Config
	version    string
	logger     *slog.Logger
}

// NewClient creates a Client with the given configuration.
func NewClient(cfg Config, version string, logger *slog.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := cfg.baseURL()
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		DisableCompression: true,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		transport: transport,
		baseURL:   base,
		cfg:       cfg,
		version:   version,
		logger:    logger.With("component", "update"),
	}, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.transport.CloseIdleConnections()
}

// MarkerURL returns the URL of the version marker.
func (c *Client) MarkerURL() string {
	return c.remoteURL(".md5")
}

// DefinitionsURL returns the URL of the definitions file.
func (c *Client) DefinitionsURL() string {
	return c.remoteURL(".def")
}

func (c *Client) remoteURL(ext string) string {
	return fmt.Sprintf("%s/%s_%s%s", c.baseURL, c.cfg.DefinitionsName, c.cfg.VersionTag, ext)
}

// LatestMarker fetches the MD5 of the latest published definitions.
func (c *Client) LatestMarker(ctx context.Context) (string, error) {
	body, err := c.fetch(ctx, c.MarkerURL(), maxMarkerSize)
	if err != nil {
		return "", err
	}
	marker := strings.TrimSpace(string(body))
	if marker == "" {
		return "", errors.New("update: empty version marker")
	}
	return marker, nil
}

// Available reports whether the definitions at localPath differ from the
// latest published ones. A missing local file always needs an update.
func (c *Client) Available(ctx context.Context, localPath string) (bool, error) {
	local, err := checksum.File(localPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.logger.Debug("no local definitions", "path", localPath)
			return true, nil
		}
		return false, fmt.Errorf("update: %w", err)
	}

	latest, err := c.LatestMarker(ctx)
	if err != nil {
		return false, err
	}

	c.logger.Debug("compared definitions", "local", local, "latest", latest)
	return !strings.EqualFold(local, latest), nil
}

// Download fetches the latest definitions and writes them to dest
// atomically. dest is left untouched on failure.
func (c *Client) Download(ctx context.Context, dest string) error {
	body, err := c.fetch(ctx, c.DefinitionsURL(), maxDefinitionsSize)
	if err != nil {
		return err
	}

	dir, name := filepath.Split(dest)
	if dir == "" {
		dir = "."
	}
	if err := fsutil.WriteFileAtomic(dir, name, body, 0o644); err != nil {
		return fmt.Errorf("update: write %s: %w", dest, err)
	}

	c.logger.Info("definitions downloaded", "path", dest, "bytes", len(body))
	return nil
}

// fetch GETs url and returns the decoded body, limited to limit bytes.
func (c *Client) fetch(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("update: create request: %w", err)
	}
	req.Header.Set("Accept-Encoding", acceptEncoding)
	req.Header.Set("User-Agent", userAgentPrefix+c.version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update: GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp)
	}

	body, err := decodeBody(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("update: read %s: %w", url, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, url, limit)
	}
	return data, nil
}

// Sync downloads the latest definitions to localPath when they differ from
// the local copy. It reports whether a download happened.
func (c *Client) Sync(ctx context.Context, localPath string) (bool, error) {
	available, err := c.Available(ctx, localPath)
	if err != nil {
		return false, err
	}
	if !available {
		c.logger.Info("definitions are up to date", "path", localPath)
		return false, nil
	}
	if err := c.Download(ctx, localPath); err != nil {
		return false, err
	}
	return true, nil
}
