package lxd

import (
	"fmt"
	"log/slog"

	"shellop/pkg/domain"
	"shellop/pkg/runner"
)

// initCommand initializes the runtime non-interactively, creating the
// storage pool and the private bridge for session containers. The runtime
// CLI refuses to run from arbitrary directories, so both commands execute
// from the filesystem root.
const initCommand = `cat <<EOF | lxd init --preseed
networks:
- name: ` + domain.NetworkName + `
  type: bridge
  config:
    ipv4.address: auto
    ipv6.address: none
profiles:
- name: default
  devices:
    eth0:
      name: eth0
      nictype: bridged
      parent: ` + domain.NetworkName + `
      type: nic
storage_pools:
- name: data
  driver: dir
EOF`

const waitCommand = "lxd waitready --timeout 30"

// Setup ensures the runtime is initialized exactly once. The presence of
// the private bridge marks a previous initialization; the wait command runs
// in either case because initialization is asynchronous and a freshly
// booted host may not have stabilized yet.
func Setup(client Client, run runner.Runner, log *slog.Logger) error {
	networks, err := client.Networks()
	if err != nil {
		return fmt.Errorf("list networks: %w", err)
	}
	initialized := false
	for _, network := range networks {
		if network.Name == domain.NetworkName {
			initialized = true
			break
		}
	}
	if initialized {
		if log != nil {
			log.Info("runtime already initialized", "network", domain.NetworkName)
		}
	} else {
		if _, err := run.Run([]string{initCommand}, runner.WithShell(), runner.WithDir("/")); err != nil {
			return fmt.Errorf("initialize runtime: %w", err)
		}
	}
	if _, err := run.Run([]string{waitCommand}, runner.WithShell(), runner.WithDir("/")); err != nil {
		return fmt.Errorf("wait for runtime: %w", err)
	}
	return nil
}
