package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shellop/pkg/runner"
)

type hookRunner struct {
	calls [][]string
	out   string
	err   error
}

func (h *hookRunner) Run(args []string, opts ...runner.Option) (string, error) {
	h.calls = append(h.calls, args)
	return h.out, h.err
}

func TestHookRetriever(t *testing.T) {
	run := &hookRunner{out: "/var/lib/juju/resources/termserver"}
	retriever := &HookRetriever{Runner: run}

	path, err := retriever.ResourceGet("termserver")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/juju/resources/termserver", path)
	assert.Equal(t, [][]string{{"resource-get", "termserver"}}, run.calls)
}

func TestHookRetrieverEmptyPathIsUnavailable(t *testing.T) {
	run := &hookRunner{out: ""}

	err := Save(&HookRetriever{Runner: run}, "termserver", "/var/tmp/termserver.tar.gz")
	require.ErrorIs(t, err, ErrUnavailable)
}
