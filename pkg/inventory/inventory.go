// Package inventory loads the device inventory once at startup and serves
// read-only lookups for the lifetime of the process. A Set is never mutated
// after load, so concurrent requests share it without locking.
package inventory

import (
	"fmt"
	"sort"

	"github.com/wentf9/cisco-mcp/pkg/models"
)

// Set 是加载完成后的只读设备清单
type Set struct {
	devices map[string]models.Device
	// lookupIndex 额外按 host 和 host:port 建立索引，方便用地址查设备
	lookupIndex map[string]string
}

func newSet() *Set {
	return &Set{
		devices:     make(map[string]models.Device),
		lookupIndex: make(map[string]string),
	}
}

// add validates and indexes one entry. A missing host is fatal for the
// entry; platform and port get the permissive defaults.
func (s *Set) add(name string, dev models.Device) error {
	if dev.Host == "" {
		return fmt.Errorf("device '%s': host is required", name)
	}
	dev.Name = name
	if dev.Platform == "" {
		dev.Platform = models.PlatformIOSXE
	}
	if dev.Port == 0 {
		dev.Port = models.DefaultPort
	}
	s.devices[name] = dev
	s.lookupIndex[dev.Host] = name
	s.lookupIndex[dev.Addr()] = name
	return nil
}

// FromDevices builds a Set from already-assembled records, applying the
// same validation and defaults as the file loader.
func FromDevices(devices map[string]models.Device) (*Set, error) {
	set := newSet()
	for name, dev := range devices {
		if err := set.add(name, dev); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Get resolves a device by inventory name, falling back to the host-address
// index ("192.0.2.1" or "192.0.2.1:22").
func (s *Set) Get(name string) (models.Device, bool) {
	if dev, ok := s.devices[name]; ok {
		return dev, true
	}
	if alias, ok := s.lookupIndex[name]; ok {
		return s.devices[alias], true
	}
	return models.Device{}, false
}

// List returns the credential-free view of every device, keyed by name.
func (s *Set) List() map[string]models.Summary {
	out := make(map[string]models.Summary, len(s.devices))
	for name, dev := range s.devices {
		out[name] = dev.Summary()
	}
	return out
}

// Names returns all device names in stable order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.devices))
	for name := range s.devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of devices.
func (s *Set) Len() int { return len(s.devices) }
