package lxd

import (
	"fmt"

	"github.com/opencontainers/go-digest"

	"shellop/pkg/runner"
)

// fakeClient is an in-memory Client recording every mutation. CreateImage
// computes the fingerprint the way the runtime would, from the uploaded
// bytes.
type fakeClient struct {
	images     []Image
	containers []Container
	networks   []Network

	created        [][]byte
	addedAliases   []string // "alias->fingerprint"
	deletedAliases []string
	stopped        []string
	deleted        []string

	err error
}

var _ Client = (*fakeClient)(nil)

func (f *fakeClient) Images() ([]Image, error) {
	return f.images, f.err
}

func (f *fakeClient) CreateImage(data []byte) (Image, error) {
	if f.err != nil {
		return Image{}, f.err
	}
	f.created = append(f.created, data)
	img := Image{Fingerprint: digest.FromBytes(data).Encoded()}
	f.images = append(f.images, img)
	return img, nil
}

func (f *fakeClient) AddAlias(fingerprint, name, description string) error {
	if f.err != nil {
		return f.err
	}
	f.addedAliases = append(f.addedAliases, fmt.Sprintf("%s->%s", name, fingerprint))
	for i := range f.images {
		if f.images[i].Fingerprint == fingerprint {
			f.images[i].Aliases = append(f.images[i].Aliases, Alias{
				Name:        name,
				Description: description,
			})
		}
	}
	return nil
}

func (f *fakeClient) DeleteAlias(name string) error {
	if f.err != nil {
		return f.err
	}
	f.deletedAliases = append(f.deletedAliases, name)
	for i := range f.images {
		aliases := f.images[i].Aliases[:0]
		for _, a := range f.images[i].Aliases {
			if a.Name != name {
				aliases = append(aliases, a)
			}
		}
		f.images[i].Aliases = aliases
	}
	return nil
}

func (f *fakeClient) Containers() ([]Container, error) {
	return f.containers, f.err
}

func (f *fakeClient) StopContainer(name string) error {
	if f.err != nil {
		return f.err
	}
	f.stopped = append(f.stopped, name)
	return nil
}

func (f *fakeClient) DeleteContainer(name string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeClient) Networks() ([]Network, error) {
	return f.networks, f.err
}

// fakeRunner records each invocation with its resolved options.
type fakeRunner struct {
	calls []fakeCall
	err   error
}

type fakeCall struct {
	args []string
	opts runner.Options
}

func (f *fakeRunner) Run(args []string, opts ...runner.Option) (string, error) {
	f.calls = append(f.calls, fakeCall{args: args, opts: runner.Apply(opts)})
	return "", f.err
}
