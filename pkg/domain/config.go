package domain

// Package-wide constants for the shell service substrate. The image and
// profile names are part of the contract with the running termserver
// service and must match what it expects to find in its configuration.
const (
	AppName = "shellop"

	// ImageName is the alias under which the termserver base image is
	// registered with the container runtime.
	ImageName = "termserver"

	// LXDSocketPath is where the service reaches the container runtime.
	LXDSocketPath = "/var/lib/lxd/unix.socket"

	// NetworkName is the private bridge created by runtime initialization.
	// Its presence marks the runtime as already initialized.
	NetworkName = "jujushellbr0"

	// ProfileTermserver and ProfileTermserverLimited are the two container
	// profiles the service applies to user sessions.
	ProfileTermserver        = "termserver"
	ProfileTermserverLimited = "termserver-limited"

	EnvJujuAddresses = "JUJU_API_ADDRESSES"
	EnvCharmDir      = "CHARM_DIR"

	// ConfigRelPath is where the service configuration artifact lives,
	// relative to the charm directory.
	ConfigRelPath = "files/config.yaml"
)

// Snapshot is a read-only view of the operator-supplied configuration at the
// time of a configuration-change event. Prev, when non-nil, holds the values
// from the previous event and is only used for change detection.
type Snapshot struct {
	LogLevel       string
	Port           int
	TLS            bool
	TLSCert        string // base64, possibly empty
	TLSKey         string // base64, possibly empty
	DNSName        string
	JujuAddrs      string // space separated override, possibly empty
	JujuCert       string // PEM, "from-unit" sentinel, or empty
	AllowedUsers   string // space separated, possibly empty
	SessionTimeout int
	WelcomeMessage string

	QuotaCPUCores     int
	QuotaCPUAllowance string
	QuotaRAM          string
	QuotaProcesses    int

	Prev *Snapshot
}

// ServiceConfig is the canonical configuration consumed by the shell
// service. It is always fully populated and internally consistent: TLS cert
// and key are either both present or both absent, and a DNS name never
// coexists with direct TLS material.
type ServiceConfig struct {
	AllowedUsers   []string `yaml:"allowed-users"`
	DNSName        string   `yaml:"dns-name,omitempty"`
	ImageName      string   `yaml:"image-name"`
	JujuAddrs      []string `yaml:"juju-addrs"`
	JujuCert       string   `yaml:"juju-cert"`
	LogLevel       string   `yaml:"log-level"`
	LXDSocketPath  string   `yaml:"lxd-socket-path"`
	Port           int      `yaml:"port"`
	Profiles       []string `yaml:"profiles"`
	SessionTimeout int      `yaml:"session-timeout"`
	TLSCert        string   `yaml:"tls-cert,omitempty"`
	TLSKey         string   `yaml:"tls-key,omitempty"`
	WelcomeMessage string   `yaml:"welcome-message"`
}
