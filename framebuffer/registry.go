// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framebuffer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"
)

// ErrBackendNotFound is returned by Lookup for an unregistered name.
var ErrBackendNotFound = errors.New("framebuffer: backend not registered")

// backends holds named backend factories. GPU backends win over the
// software backend when both are registered.
var backends = gpucontext.NewRegistry[Backend](
	gpucontext.WithPriority(HALBackendName, SoftwareBackendName),
)

func init() {
	Register(SoftwareBackendName, func() Backend { return NewSoftwareBackend() })
}

// Register makes a backend factory available under name. Registering an
// existing name replaces its factory.
//
// The HAL backend needs a device and is therefore not registered by
// default; applications register it once they have one:
//
//	framebuffer.Register(framebuffer.HALBackendName, func() framebuffer.Backend {
//	    return framebuffer.NewHALBackend(device)
//	})
func Register(name string, factory func() Backend) {
	backends.Register(name, factory)
	Logger().Debug("framebuffer: backend registered", "name", name)
}

// Unregister removes a backend factory.
func Unregister(name string) {
	backends.Unregister(name)
}

// Lookup returns a new instance of the named backend.
func Lookup(name string) (Backend, error) {
	if !backends.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotFound, name)
	}
	b := backends.Get(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %q factory returned nil", ErrBackendNotFound, name)
	}
	return b, nil
}

// Default returns the highest-priority registered backend.
func Default() (Backend, error) {
	name := backends.BestName()
	if name == "" {
		return nil, ErrBackendNotFound
	}
	return Lookup(name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	names := backends.Available()
	slices.Sort(names)
	return names
}
