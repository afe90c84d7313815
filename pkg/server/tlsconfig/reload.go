package tlsconfig

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// expiryWarning is the remaining validity below which a warning is logged.
const expiryWarning = 30 * 24 * time.Hour

// Reloader serves a certificate key pair and reloads it when the files
// change.
type Reloader struct {
	certFile string
	keyFile  string
	interval time.Duration
	logger   *slog.Logger

	mu       sync.RWMutex
	cert     *tls.Certificate
	certTime time.Time
	keyTime  time.Time
}

// NewReloader creates a reloader checking the files every interval.
func NewReloader(certFile, keyFile string, interval time.Duration, logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{certFile: certFile, keyFile: keyFile, interval: interval, logger: logger}
}

// Start loads the key pair and, if interval is positive, checks the files
// in the background until ctx is done.
func (r *Reloader) Start(ctx context.Context) error {
	if err := r.reload(); err != nil {
		return err
	}
	r.logCertificate()

	if r.interval > 0 {
		go r.loop(ctx)
	}
	return nil
}

// GetCertificate implements tls.Config.GetCertificate.
func (r *Reloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cert == nil {
		return nil, errors.New("no certificate loaded")
	}
	return r.cert, nil
}

// Check reloads the key pair if either file changed since the last load.
// It reports whether a new certificate was loaded.
func (r *Reloader) Check() (bool, error) {
	if !r.changed() {
		return false, nil
	}
	if err := r.reload(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Reloader) loop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			reloaded, err := r.Check()
			if err != nil {
				r.logger.Error("failed to reload certificate",
					"error", err,
					"cert_file", r.certFile,
					"key_file", r.keyFile,
				)
				continue
			}
			if reloaded {
				r.logger.Info("certificate reloaded", "cert_file", r.certFile)
				r.logCertificate()
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *Reloader) changed() bool {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return false
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return certInfo.ModTime().After(r.certTime) || keyInfo.ModTime().After(r.keyTime)
}

func (r *Reloader) reload() error {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return fmt.Errorf("certificate file: %w", err)
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return fmt.Errorf("key file: %w", err)
	}

	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load certificate: %w", err)
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return fmt.Errorf("failed to parse certificate: %w", err)
	}
	if err := checkValidity(leaf, time.Now()); err != nil {
		return err
	}
	cert.Leaf = leaf

	r.mu.Lock()
	r.cert = &cert
	r.certTime = certInfo.ModTime()
	r.keyTime = keyInfo.ModTime()
	r.mu.Unlock()
	return nil
}

func checkValidity(cert *x509.Certificate, now time.Time) error {
	if now.Before(cert.NotBefore) {
		return fmt.Errorf("certificate is not yet valid (valid from %s)", cert.NotBefore.Format(time.RFC3339))
	}
	if now.After(cert.NotAfter) {
		return fmt.Errorf("certificate expired on %s", cert.NotAfter.Format(time.RFC3339))
	}
	return nil
}

func (r *Reloader) logCertificate() {
	r.mu.RLock()
	cert := r.cert
	r.mu.RUnlock()
	if cert == nil || cert.Leaf == nil {
		return
	}

	leaf := cert.Leaf
	remaining := time.Until(leaf.NotAfter)
	attrs := []any{
		"subject", leaf.Subject.CommonName,
		"issuer", leaf.Issuer.CommonName,
		"expires_in_days", int(remaining.Hours() / 24),
		"expires_at", leaf.NotAfter.Format(time.RFC3339),
	}
	if remaining < expiryWarning {
		r.logger.Warn("certificate expiring soon", attrs...)
		return
	}
	r.logger.Info("certificate loaded", attrs...)
}
