// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framebuffer

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/wgpu/hal/noop"
)

func TestRegistrySoftwareByDefault(t *testing.T) {
	if !slices.Contains(Available(), SoftwareBackendName) {
		t.Fatalf("Available() = %v, want software registered", Available())
	}
	b, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if b.Name() != SoftwareBackendName {
		t.Errorf("Default().Name() = %q, want %q", b.Name(), SoftwareBackendName)
	}
}

func TestRegistryPrefersHAL(t *testing.T) {
	Register(HALBackendName, func() Backend { return NewHALBackend(&noop.Device{}) })
	t.Cleanup(func() { Unregister(HALBackendName) })

	b, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if b.Name() != HALBackendName {
		t.Errorf("Default().Name() = %q, want %q", b.Name(), HALBackendName)
	}
}

func TestRegistryLookup(t *testing.T) {
	if _, err := Lookup("vulkan-direct"); !errors.Is(err, ErrBackendNotFound) {
		t.Errorf("Lookup(unknown) = %v, want ErrBackendNotFound", err)
	}

	Register("broken", func() Backend { return nil })
	t.Cleanup(func() { Unregister("broken") })
	if _, err := Lookup("broken"); !errors.Is(err, ErrBackendNotFound) {
		t.Errorf("Lookup(nil factory) = %v, want ErrBackendNotFound", err)
	}

	b, err := Lookup(SoftwareBackendName)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := b.(*SoftwareBackend); !ok {
		t.Errorf("Lookup(software) = %T, want *SoftwareBackend", b)
	}
}
