// Package certs resolves the TLS material for the shell service: disabled,
// operator provided, or freshly generated through openssl.
package certs

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"shellop/pkg/runner"
)

const (
	certFile = "cert.pem"
	keyFile  = "key.pem"

	// subjPrefix is the openssl subject for generated certificates; the
	// common name is appended per invocation.
	subjPrefix = "/C=GB/ST=London/L=London/O=Canonical/OU=JAAS/CN="
)

// Provider resolves or generates a key/certificate pair. WorkDir is where
// generated PEM files are written and read back; leftovers from a previous
// failed generation are overwritten.
type Provider struct {
	Runner  runner.Runner
	WorkDir string
	Log     *slog.Logger
}

// Resolve returns the PEM cert and key for the service.
//
// Disabled TLS overrides everything: both provided and generated material
// are ignored. When both provided values are present they are decoded and
// returned verbatim, without validating the certificate structure. Partial
// provision counts as not provided, so generation is all-or-nothing and the
// pair can never be mismatched.
func (p *Provider) Resolve(enabled bool, certB64, keyB64, commonName string) (string, string, error) {
	if !enabled {
		return "", "", nil
	}
	if certB64 != "" && keyB64 != "" {
		cert, err := base64.StdEncoding.DecodeString(certB64)
		if err != nil {
			return "", "", fmt.Errorf("decode tls-cert: %w", err)
		}
		key, err := base64.StdEncoding.DecodeString(keyB64)
		if err != nil {
			return "", "", fmt.Errorf("decode tls-key: %w", err)
		}
		return string(cert), string(key), nil
	}
	return p.generate(commonName)
}

// generate runs a single openssl invocation producing a self-signed
// RSA-4096 pair valid for 365 days, reads both files and removes them.
func (p *Provider) generate(commonName string) (string, string, error) {
	if commonName == "" {
		commonName = "0.0.0.0"
	}
	certPath := filepath.Join(p.WorkDir, certFile)
	keyPath := filepath.Join(p.WorkDir, keyFile)

	if p.Log != nil {
		p.Log.Info("generating self signed certificate", "common-name", commonName)
	}
	_, err := p.Runner.Run([]string{
		"openssl", "req",
		"-x509",
		"-newkey", "rsa:4096",
		"-keyout", keyPath,
		"-out", certPath,
		"-days", "365",
		"-nodes",
		"-subj", subjPrefix + commonName,
	})
	if err != nil {
		return "", "", fmt.Errorf("generate certificate: %w", err)
	}
	// Removal is best effort once both files have been read.
	defer func() {
		_ = os.Remove(certPath)
		_ = os.Remove(keyPath)
	}()

	cert, err := os.ReadFile(certPath)
	if err != nil {
		return "", "", fmt.Errorf("read generated certificate: %w", err)
	}
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return "", "", fmt.Errorf("read generated key: %w", err)
	}
	return string(cert), string(key), nil
}
