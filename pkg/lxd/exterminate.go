package lxd

import (
	"fmt"
	"log/slog"
)

// Exterminate stops and deletes containers, returning the names of all
// containers that passed the filters in the runtime's enumeration order.
// The returned list represents what would be (or was) removed, so it is the
// same for dry and non-dry runs against identical runtime state.
//
// A name filter keeps only the container with that exact name; no match is
// an empty result, not an error. With onlyStopped set, running containers
// are left alone entirely. Running containers are stopped before deletion;
// the stop call is skipped for containers already stopped.
func Exterminate(client Client, log *slog.Logger, name string, onlyStopped, dryRun bool) ([]string, error) {
	containers, err := client.Containers()
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}
	removed := []string{}
	for _, container := range containers {
		if name != "" && container.Name != name {
			continue
		}
		if onlyStopped && container.Status != StatusStopped {
			continue
		}
		if !dryRun {
			if container.Status != StatusStopped {
				if err := client.StopContainer(container.Name); err != nil {
					return removed, fmt.Errorf("stop container %q: %w", container.Name, err)
				}
			}
			if err := client.DeleteContainer(container.Name); err != nil {
				return removed, fmt.Errorf("delete container %q: %w", container.Name, err)
			}
			if log != nil {
				log.Info("container removed", "name", container.Name)
			}
		}
		removed = append(removed, container.Name)
	}
	return removed, nil
}
