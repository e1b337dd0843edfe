package lxd

import (
	"fmt"
	"strconv"

	"shellop/pkg/domain"
	"shellop/pkg/runner"
)

// UpdateQuotas applies the operator's per-session resource limits to the
// unrestricted profile through the runtime CLI.
func UpdateQuotas(run runner.Runner, cfg domain.Snapshot) error {
	quotas := []struct {
		key   string
		value string
	}{
		{"limits.cpu", strconv.Itoa(cfg.QuotaCPUCores)},
		{"limits.cpu.allowance", cfg.QuotaCPUAllowance},
		{"limits.memory", cfg.QuotaRAM},
		{"limits.processes", strconv.Itoa(cfg.QuotaProcesses)},
	}
	for _, quota := range quotas {
		args := []string{"lxc", "profile", "set", domain.ProfileTermserver, quota.key, quota.value}
		if _, err := run.Run(args); err != nil {
			return fmt.Errorf("set quota %s: %w", quota.key, err)
		}
	}
	return nil
}
