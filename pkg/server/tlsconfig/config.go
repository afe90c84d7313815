package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"mercator-hq/odrlcheck/pkg/config"
)

// Build returns the server TLS configuration. Certificates come from r,
// which must have been started.
func Build(cfg *config.TLSConfig, r *Reloader) (*tls.Config, error) {
	// #nosec G402 - MinVersion is 1.2 or 1.3
	tlsConfig := &tls.Config{
		MinVersion:     minVersion(cfg.MinVersion),
		GetCertificate: r.GetCertificate,
	}

	if cfg.ClientCAFile != "" {
		pem, err := os.ReadFile(cfg.ClientCAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read client CA: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.ClientCAFile)
		}
		tlsConfig.ClientCAs = pool
		tlsConfig.ClientAuth = clientAuth(cfg.ClientAuth)
	}

	return tlsConfig, nil
}

func minVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

func clientAuth(mode string) tls.ClientAuthType {
	switch mode {
	case "request":
		return tls.RequestClientCert
	case "verify_if_given":
		return tls.VerifyClientCertIfGiven
	default:
		return tls.RequireAndVerifyClientCert
	}
}
