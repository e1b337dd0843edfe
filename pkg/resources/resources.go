// Package resources fetches named resource blobs from the distribution
// layer and places them where the substrate expects them.
package resources

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrUnavailable reports that a required resource blob cannot be fetched.
var ErrUnavailable = errors.New("resource unavailable")

// Retriever resolves a named resource to a local filesystem path. An empty
// path means the resource is not available.
type Retriever interface {
	ResourceGet(name string) (string, error)
}

// Staging locations for the base image tarballs.
const (
	termserverPath        = "/var/tmp/termserver.tar.gz"
	termserverLimitedPath = "/var/tmp/termserver-limited.tar.gz"
)

// TermserverPath returns the staging path for the base image tarball.
func TermserverPath(limited bool) string {
	if limited {
		return termserverLimitedPath
	}
	return termserverPath
}

// Save retrieves the named resource and moves it to path.
func Save(retriever Retriever, name, path string) error {
	src, err := retriever.ResourceGet(name)
	if err != nil {
		return fmt.Errorf("cannot retrieve resource %q: %w: %w", name, ErrUnavailable, err)
	}
	if src == "" {
		return fmt.Errorf("cannot retrieve resource %q: %w", name, ErrUnavailable)
	}
	if err := move(src, path); err != nil {
		return fmt.Errorf("save resource %q: %w", name, err)
	}
	return nil
}

// move renames src to dst, falling back to copy and remove when the two
// live on different filesystems.
func move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
