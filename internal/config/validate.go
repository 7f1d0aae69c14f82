// internal/config/validate.go
package config

import (
	"fmt"
	"net"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	for i, ip := range c.Tablo.IPs {
		host := ip
		if h, _, err := net.SplitHostPort(ip); err == nil {
			host = h
		}
		if host == "" {
			errs = append(errs, fmt.Sprintf("tablo.ips[%d]: empty address", i))
		}
	}
	if c.Tablo.DiscoveryURL != "" {
		if u, err := url.Parse(c.Tablo.DiscoveryURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("tablo.discovery_url: invalid URL %q", c.Tablo.DiscoveryURL))
		}
	}

	if c.Tools.ProbeTimeout < 0 {
		errs = append(errs, fmt.Sprintf("tools.probe_timeout: must be positive, got %s", c.Tools.ProbeTimeout))
	}

	if c.PutIO.ParentID < 0 {
		errs = append(errs, fmt.Sprintf("putio.parent_id: must be 0 (root) or a folder id, got %d", c.PutIO.ParentID))
	}
	if c.PutIO.UploadURL != "" {
		if u, err := url.Parse(c.PutIO.UploadURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("putio.upload_url: invalid URL %q", c.PutIO.UploadURL))
		}
	}

	return errs
}
