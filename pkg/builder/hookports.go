package builder

import (
	"fmt"

	"shellop/pkg/runner"
)

// HookPorts applies port exposure through the unit's hook tools. Both
// tools are idempotent on the unit side.
type HookPorts struct {
	Runner runner.Runner
}

var _ PortManager = (*HookPorts)(nil)

func (h *HookPorts) OpenPort(port int) error {
	_, err := h.Runner.Run([]string{"open-port", fmt.Sprintf("%d/tcp", port)})
	return err
}

func (h *HookPorts) ClosePort(port int) error {
	_, err := h.Runner.Run([]string{"close-port", fmt.Sprintf("%d/tcp", port)})
	return err
}
