package lxd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/opencontainers/go-digest"
)

// ImportImage makes the base image at path available under alias,
// deduplicated by content. The runtime is authoritative for fingerprints;
// the candidate bytes are digested locally only to compare for equality
// against the runtime's reported values.
//
// The operation is idempotent: identical bytes are a no-op, changed bytes
// migrate the alias to the freshly imported image without deleting the
// stale image object.
func ImportImage(client Client, log *slog.Logger, alias, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image %q: %w", path, err)
	}
	fingerprint := digest.FromBytes(data).Encoded()

	images, err := client.Images()
	if err != nil {
		return fmt.Errorf("list images: %w", err)
	}
	var holder, matching *Image
	for i := range images {
		if images[i].HasAlias(alias) {
			holder = &images[i]
		}
		if images[i].Fingerprint == fingerprint {
			matching = &images[i]
		}
	}

	if holder != nil {
		if holder.Fingerprint == fingerprint {
			// Desired state already exists.
			if log != nil {
				log.Info("image up to date", "alias", alias, "fingerprint", fingerprint)
			}
			return nil
		}
		// The alias points at stale content: detach it, keep the image.
		if err := client.DeleteAlias(alias); err != nil {
			return fmt.Errorf("remove stale alias %q: %w", alias, err)
		}
	}

	if matching != nil {
		// The bytes are already present, only the alias is missing.
		if err := client.AddAlias(matching.Fingerprint, alias, ""); err != nil {
			return fmt.Errorf("alias existing image: %w", err)
		}
		return nil
	}

	if log != nil {
		log.Info("importing image", "alias", alias, "path", path, "fingerprint", fingerprint)
	}
	img, err := client.CreateImage(data)
	if err != nil {
		return fmt.Errorf("import image %q: %w", alias, err)
	}
	if err := client.AddAlias(img.Fingerprint, alias, ""); err != nil {
		return fmt.Errorf("alias imported image: %w", err)
	}
	return nil
}
