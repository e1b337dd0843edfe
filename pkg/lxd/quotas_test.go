package lxd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shellop/pkg/domain"
)

func TestUpdateQuotas(t *testing.T) {
	run := &fakeRunner{}

	err := UpdateQuotas(run, domain.Snapshot{
		QuotaCPUCores:     1,
		QuotaCPUAllowance: "100%",
		QuotaRAM:          "256MB",
		QuotaProcesses:    100,
	})
	require.NoError(t, err)

	require.Len(t, run.calls, 4)
	assert.Equal(t, []string{"lxc", "profile", "set", "termserver", "limits.cpu", "1"}, run.calls[0].args)
	assert.Equal(t, []string{"lxc", "profile", "set", "termserver", "limits.cpu.allowance", "100%"}, run.calls[1].args)
	assert.Equal(t, []string{"lxc", "profile", "set", "termserver", "limits.memory", "256MB"}, run.calls[2].args)
	assert.Equal(t, []string{"lxc", "profile", "set", "termserver", "limits.processes", "100"}, run.calls[3].args)
}

func TestUpdateQuotasCommandFails(t *testing.T) {
	run := &fakeRunner{err: assert.AnError}

	err := UpdateQuotas(run, domain.Snapshot{QuotaCPUCores: 2})
	require.ErrorIs(t, err, assert.AnError)
	assert.Len(t, run.calls, 1)
}
