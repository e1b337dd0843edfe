package resources

import (
	"shellop/pkg/runner"
)

// HookRetriever resolves resources through the unit's resource-get hook
// tool, which prints the local path of the downloaded blob.
type HookRetriever struct {
	Runner runner.Runner
}

var _ Retriever = (*HookRetriever)(nil)

func (h *HookRetriever) ResourceGet(name string) (string, error) {
	return h.Runner.Run([]string{"resource-get", name})
}
