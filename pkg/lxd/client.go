// Package lxd drives the container runtime substrate hosting user shell
// sessions: one-time initialization, content-addressed base image import,
// container extermination and profile quota management.
//
// Runtime access goes through the narrow Client interface so tests can
// substitute an in-memory fake; SocketClient implements it on top of the
// official runtime client library, connected over the local unix socket.
package lxd

import (
	"bytes"
	"fmt"
	"log/slog"

	lxdclient "github.com/canonical/lxd/client"
	"github.com/canonical/lxd/shared/api"
)

// Container status values as reported by the runtime.
const (
	StatusRunning = "Running"
	StatusStopped = "Stopped"
)

// Image is a runtime-side image with its content fingerprint and attached
// aliases. Fingerprints are computed by the runtime, never locally.
type Image struct {
	Fingerprint string
	Aliases     []Alias
}

// HasAlias reports whether the image carries the named alias.
func (i Image) HasAlias(name string) bool {
	for _, a := range i.Aliases {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Alias is a human readable name attached to an image.
type Alias struct {
	Name        string
	Description string
}

// Container is a runtime-side container.
type Container struct {
	Name   string
	Status string
}

// Network is a runtime-side network.
type Network struct {
	Name string
}

// Client is the runtime surface consumed by this package.
type Client interface {
	Images() ([]Image, error)
	// CreateImage uploads image bytes and blocks until the runtime
	// confirms creation, returning the resulting image.
	CreateImage(data []byte) (Image, error)
	AddAlias(fingerprint, name, description string) error
	DeleteAlias(name string) error
	Containers() ([]Container, error)
	// StopContainer blocks until the container has stopped.
	StopContainer(name string) error
	DeleteContainer(name string) error
	Networks() ([]Network, error)
}

// SocketClient talks to the runtime over its unix socket.
type SocketClient struct {
	server lxdclient.InstanceServer
	log    *slog.Logger
}

var _ Client = (*SocketClient)(nil)

// NewSocketClient connects to the runtime socket at socketPath.
func NewSocketClient(socketPath string, log *slog.Logger) (*SocketClient, error) {
	if log == nil {
		log = slog.Default()
	}
	server, err := lxdclient.ConnectLXDUnix(socketPath, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to runtime socket %q: %w", socketPath, err)
	}
	return &SocketClient{server: server, log: log}, nil
}

func (c *SocketClient) Images() ([]Image, error) {
	apiImages, err := c.server.GetImages()
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return imagesFromAPI(apiImages), nil
}

func (c *SocketClient) CreateImage(data []byte) (Image, error) {
	c.log.Info("uploading image to runtime", "size", len(data))
	op, err := c.server.CreateImage(api.ImagesPost{}, &lxdclient.ImageCreateArgs{
		MetaFile: bytes.NewReader(data),
	})
	if err != nil {
		return Image{}, fmt.Errorf("create image: %w", err)
	}
	if err := op.Wait(); err != nil {
		return Image{}, fmt.Errorf("create image: %w", err)
	}
	fingerprint, _ := op.Get().Metadata["fingerprint"].(string)
	if fingerprint == "" {
		return Image{}, fmt.Errorf("create image: runtime reported no fingerprint")
	}
	return Image{Fingerprint: fingerprint}, nil
}

func (c *SocketClient) AddAlias(fingerprint, name, description string) error {
	alias := api.ImageAliasesPost{}
	alias.Name = name
	alias.Target = fingerprint
	alias.Description = description
	if err := c.server.CreateImageAlias(alias); err != nil {
		return fmt.Errorf("add alias %q: %w", name, err)
	}
	return nil
}

func (c *SocketClient) DeleteAlias(name string) error {
	if err := c.server.DeleteImageAlias(name); err != nil {
		return fmt.Errorf("delete alias %q: %w", name, err)
	}
	return nil
}

func (c *SocketClient) Containers() ([]Container, error) {
	instances, err := c.server.GetInstances(api.InstanceTypeContainer)
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}
	return containersFromAPI(instances), nil
}

func (c *SocketClient) StopContainer(name string) error {
	op, err := c.server.UpdateInstanceState(name, api.InstanceStatePut{
		Action:  "stop",
		Timeout: -1,
	}, "")
	if err != nil {
		return fmt.Errorf("stop container %q: %w", name, err)
	}
	if err := op.Wait(); err != nil {
		return fmt.Errorf("stop container %q: %w", name, err)
	}
	return nil
}

func (c *SocketClient) DeleteContainer(name string) error {
	op, err := c.server.DeleteInstance(name)
	if err != nil {
		return fmt.Errorf("delete container %q: %w", name, err)
	}
	if err := op.Wait(); err != nil {
		return fmt.Errorf("delete container %q: %w", name, err)
	}
	return nil
}

func (c *SocketClient) Networks() ([]Network, error) {
	apiNetworks, err := c.server.GetNetworks()
	if err != nil {
		return nil, fmt.Errorf("list networks: %w", err)
	}
	return networksFromAPI(apiNetworks), nil
}

func imagesFromAPI(apiImages []api.Image) []Image {
	images := make([]Image, 0, len(apiImages))
	for _, img := range apiImages {
		image := Image{Fingerprint: img.Fingerprint}
		for _, a := range img.Aliases {
			image.Aliases = append(image.Aliases, Alias{
				Name:        a.Name,
				Description: a.Description,
			})
		}
		images = append(images, image)
	}
	return images
}

func containersFromAPI(instances []api.Instance) []Container {
	containers := make([]Container, 0, len(instances))
	for _, inst := range instances {
		containers = append(containers, Container{Name: inst.Name, Status: inst.Status})
	}
	return containers
}

func networksFromAPI(apiNetworks []api.Network) []Network {
	networks := make([]Network, 0, len(apiNetworks))
	for _, n := range apiNetworks {
		networks = append(networks, Network{Name: n.Name})
	}
	return networks
}
