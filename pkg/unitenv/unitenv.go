// Package unitenv gives read-only access to the unit environment the
// operator runs in: controller API addresses and cluster trust material.
// Process environment and filesystem lookups sit behind the Environ
// interface so tests can supply fixed values.
package unitenv

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"shellop/pkg/domain"
)

// ErrNoAddresses is returned when no controller API addresses can be found
// anywhere. This is fatal: the shell service cannot reach the controller.
var ErrNoAddresses = errors.New("could not find API addresses")

// certFromUnit asks for the cluster certificate from the local agent state.
const certFromUnit = "from-unit"

// agentFile holds local agent state, one directory above the charm dir.
const agentFile = "agent.conf"

// Environ exposes the unit environment.
type Environ interface {
	Getenv(key string) string
	CharmDir() string
}

// OSEnviron reads the real process environment.
type OSEnviron struct{}

var _ Environ = OSEnviron{}

func (OSEnviron) Getenv(key string) string { return os.Getenv(key) }

func (OSEnviron) CharmDir() string { return os.Getenv(domain.EnvCharmDir) }

// JujuAddresses returns the controller addresses as an ordered host:port
// list. An explicit operator override wins; otherwise the addresses come
// from the unit environment.
func JujuAddresses(env Environ, override string) ([]string, error) {
	if addrs := strings.Fields(override); len(addrs) > 0 {
		return addrs, nil
	}
	if addrs := strings.Fields(env.Getenv(domain.EnvJujuAddresses)); len(addrs) > 0 {
		return addrs, nil
	}
	return nil, ErrNoAddresses
}

// JujuCert returns the PEM certificate used to trust the cluster, or the
// empty string when none is available (cluster trust is optional). An
// explicit override wins unless it is the from-unit sentinel, in which case
// the certificate is read from the agent state file.
func JujuCert(env Environ, override string) string {
	if override != "" && override != certFromUnit {
		return override
	}
	data, err := os.ReadFile(filepath.Join(env.CharmDir(), "..", agentFile))
	if err != nil {
		return ""
	}
	var agent struct {
		CACert string `yaml:"cacert"`
	}
	if err := yaml.Unmarshal(data, &agent); err != nil {
		return ""
	}
	return agent.CACert
}
