// Package builder synthesizes the canonical shell service configuration
// from the operator snapshot and applies the resulting port exposure delta.
// The configuration is rebuilt from scratch on every event; there is no
// incremental mutation.
package builder

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"shellop/pkg/certs"
	"shellop/pkg/domain"
	"shellop/pkg/unitenv"
)

// dnsPort is the fixed listening port in DNS exposure mode.
const dnsPort = 443

// PortManager opens and closes service ports on the unit. Both calls are
// idempotent and fire only on computed deltas.
type PortManager interface {
	OpenPort(port int) error
	ClosePort(port int) error
}

// Builder reconciles operator input into a ServiceConfig.
type Builder struct {
	Env   unitenv.Environ
	Ports PortManager
	Certs *certs.Provider
	Log   *slog.Logger
}

// Build produces the service configuration, persists it under the charm
// directory and adjusts port exposure. Address resolution happens first so
// that no exposure call is made when the build cannot succeed.
func (b *Builder) Build(cfg domain.Snapshot) (*domain.ServiceConfig, error) {
	addrs, err := unitenv.JujuAddresses(b.Env, cfg.JujuAddrs)
	if err != nil {
		return nil, err
	}

	sc := &domain.ServiceConfig{
		AllowedUsers:   splitList(cfg.AllowedUsers),
		ImageName:      domain.ImageName,
		JujuAddrs:      addrs,
		JujuCert:       unitenv.JujuCert(b.Env, cfg.JujuCert),
		LogLevel:       cfg.LogLevel,
		LXDSocketPath:  domain.LXDSocketPath,
		Profiles:       []string{domain.ProfileTermserver, domain.ProfileTermserverLimited},
		SessionTimeout: cfg.SessionTimeout,
		WelcomeMessage: strings.TrimSpace(cfg.WelcomeMessage),
	}

	if dnsName, ok := dnsMode(cfg); ok {
		// DNS mode: certificate issuance and termination happen
		// externally, so direct TLS material never reaches the
		// artifact and the listening port is fixed.
		sc.Port = dnsPort
		sc.DNSName = dnsName
	} else {
		cert, key, err := b.Certs.Resolve(
			cfg.TLS, cfg.TLSCert, cfg.TLSKey, strings.TrimSpace(cfg.DNSName))
		if err != nil {
			return nil, err
		}
		sc.Port = cfg.Port
		sc.TLSCert = cert
		sc.TLSKey = key
	}

	if err := b.exposePort(cfg, sc.Port); err != nil {
		return nil, err
	}
	if err := WriteFile(sc, b.Env.CharmDir()); err != nil {
		return nil, err
	}
	if b.Log != nil {
		b.Log.Info("service configuration built",
			"port", sc.Port, "dns-name", sc.DNSName, "tls", sc.TLSCert != "")
	}
	return sc, nil
}

// exposePort diffs the previous effective port against the new one. The
// decision uses the same mode resolution as the final configuration, so the
// two can never diverge.
func (b *Builder) exposePort(cfg domain.Snapshot, port int) error {
	if cfg.Prev != nil {
		prev := EffectivePort(*cfg.Prev)
		if prev == port {
			return nil
		}
		if err := b.Ports.ClosePort(prev); err != nil {
			return fmt.Errorf("close port %d: %w", prev, err)
		}
	}
	if err := b.Ports.OpenPort(port); err != nil {
		return fmt.Errorf("open port %d: %w", port, err)
	}
	return nil
}

// EffectivePort returns the port a snapshot would make the service listen
// on, per the exposure mode rules.
func EffectivePort(cfg domain.Snapshot) int {
	if _, ok := dnsMode(cfg); ok {
		return dnsPort
	}
	return cfg.Port
}

// dnsMode reports whether the snapshot selects DNS exposure: a non-blank
// DNS name with TLS enabled. A blank name is meaningless without TLS and is
// dropped entirely.
func dnsMode(cfg domain.Snapshot) (string, bool) {
	dnsName := strings.TrimSpace(cfg.DNSName)
	return dnsName, dnsName != "" && cfg.TLS
}

// WriteFile serializes the configuration under dir, replacing any previous
// artifact wholesale.
func WriteFile(sc *domain.ServiceConfig, dir string) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshal service config: %w", err)
	}
	path := filepath.Join(dir, filepath.FromSlash(domain.ConfigRelPath))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write service config: %w", err)
	}
	return nil
}

// ServiceURL infers the base metrics URL the running service answers on
// from its configuration.
func ServiceURL(sc *domain.ServiceConfig) string {
	scheme, host := "http", "localhost"
	if sc.DNSName != "" {
		scheme, host = "https", sc.DNSName
	} else if sc.TLSCert != "" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d/metrics", scheme, host, sc.Port)
}

func splitList(s string) []string {
	list := strings.Fields(s)
	if list == nil {
		list = []string{}
	}
	return list
}
