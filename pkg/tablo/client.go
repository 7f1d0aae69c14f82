// Package tablo provides a client for the Tablo DVR local HTTP API.
package tablo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultPort is the Tablo API port on the local network.
	DefaultPort = "8885"

	// DefaultDiscoveryURL reports Tablo devices associated with the caller's public IP.
	DefaultDiscoveryURL = "https://api.tablotv.com/assocserver/getipinfo/"
)

var (
	// ErrUnavailable is returned when a device cannot be reached.
	ErrUnavailable = errors.New("tablo device unavailable")

	// ErrPlaylist is returned when a device refuses to stream a recording.
	ErrPlaylist = errors.New("tablo playlist error")
)

// Playlist is the response of a watch request.
type Playlist struct {
	URL   string          `json:"playlist_url"`
	Error json.RawMessage `json:"error,omitempty"`
}

// Client talks to Tablo devices.
type Client struct {
	discoveryURL string
	httpClient   *http.Client
	log          *slog.Logger
}

// NewClient creates a Tablo client. Empty discoveryURL uses DefaultDiscoveryURL.
func NewClient(discoveryURL string, log *slog.Logger) *Client {
	if discoveryURL == "" {
		discoveryURL = DefaultDiscoveryURL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		discoveryURL: discoveryURL,
		log:          log.With("component", "tablo"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// LocalServers returns the private IPs of Tablo devices on the local network.
func (c *Client) LocalServers(ctx context.Context) ([]string, error) {
	var resp struct {
		CPEs []struct {
			PrivateIP string `json:"private_ip"`
		} `json:"cpes"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.discoveryURL, &resp); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var ips []string
	for _, cpe := range resp.CPEs {
		if cpe.PrivateIP == "" || seen[cpe.PrivateIP] {
			continue
		}
		seen[cpe.PrivateIP] = true
		ips = append(ips, cpe.PrivateIP)
	}
	c.log.Debug("local servers", "ips", ips)
	return ips, nil
}

// Recordings lists the recording paths stored on a device.
func (c *Client) Recordings(ctx context.Context, device string) ([]string, error) {
	var paths []string
	if err := c.doJSON(ctx, http.MethodGet, deviceURL(device, "/recordings/airings"), &paths); err != nil {
		return nil, err
	}
	return paths, nil
}

// RecordingDetails returns the raw metadata document for a recording.
func (c *Client) RecordingDetails(ctx context.Context, device, recording string) (json.RawMessage, error) {
	var details json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, deviceURL(device, recording), &details); err != nil {
		return nil, err
	}
	return details, nil
}

// Watch asks the device to prepare an HLS playlist for a recording.
func (c *Client) Watch(ctx context.Context, device, recording string) (*Playlist, error) {
	var p Playlist
	if err := c.doJSON(ctx, http.MethodPost, deviceURL(device, recording+"/watch"), &p); err != nil {
		return nil, err
	}
	if len(p.Error) > 0 && string(p.Error) != "null" {
		return nil, fmt.Errorf("%w: %s", ErrPlaylist, p.Error)
	}
	if p.URL == "" {
		return nil, fmt.Errorf("%w: no playlist_url", ErrPlaylist)
	}
	return &p, nil
}

// PlaylistM3U downloads the M3U document for a playlist.
func (c *Client) PlaylistM3U(ctx context.Context, p *Playlist) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, p.URL)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read playlist: %w", err)
	}
	return string(body), nil
}

// DeleteRecording removes a recording from the device.
func (c *Client) DeleteRecording(ctx context.Context, device, recording string) error {
	resp, err := c.do(ctx, http.MethodDelete, deviceURL(device, recording))
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	c.log.Info("deleted recording", "device", device, "recording", recording)
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, result any) error {
	resp, err := c.do(ctx, method, url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string) (*http.Response, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("api request failed", "method", method, "url", url, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		c.log.Debug("api unexpected status", "method", method, "url", url, "status", resp.StatusCode)
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	c.log.Debug("api request complete", "method", method, "url", url, "duration_ms", time.Since(start).Milliseconds())
	return resp, nil
}

// deviceURL builds an API URL for a device given as "host" or "host:port".
func deviceURL(device, path string) string {
	host := device
	if _, _, err := net.SplitHostPort(device); err != nil {
		host = net.JoinHostPort(device, DefaultPort)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "http://" + host + path
}
