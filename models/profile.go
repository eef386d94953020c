// ABOUTME: Hardware profile describing a candidate target node
// ABOUTME: Read-only input sourced from the profile catalog

package models

import "fmt"

// HardwareProfile describes the hardware of one candidate node model.
type HardwareProfile struct {
	Name                   string  `json:"name" yaml:"name"`
	Vendor                 string  `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	PhysicalCores          int     `json:"physical_cores" yaml:"physical_cores"`
	Threads                int     `json:"threads" yaml:"threads"`
	MemoryGiB              float64 `json:"memory_gib" yaml:"memory_gib"`
	RawStorageGiB          float64 `json:"raw_storage_gib" yaml:"raw_storage_gib"`
	DeviceCount            int     `json:"device_count" yaml:"device_count"`
	DeviceSizeGiB          float64 `json:"device_size_gib,omitempty" yaml:"device_size_gib,omitempty"`
	SupportsTargetPlatform bool    `json:"supports_target_platform" yaml:"supports_target_platform"`
}

// RawStorage returns the raw flash capacity of the node in GiB.
// When RawStorageGiB is unset it is derived from the device layout.
func (p HardwareProfile) RawStorage() float64 {
	if p.RawStorageGiB > 0 {
		return p.RawStorageGiB
	}
	return float64(p.DeviceCount) * p.DeviceSizeGiB
}

// Label returns a short description like "32c/256GiB/8x3200GiB".
func (p HardwareProfile) Label() string {
	if p.DeviceCount > 0 && p.DeviceSizeGiB > 0 {
		return fmt.Sprintf("%dc/%.0fGiB/%dx%.0fGiB", p.PhysicalCores, p.MemoryGiB, p.DeviceCount, p.DeviceSizeGiB)
	}
	return fmt.Sprintf("%dc/%.0fGiB/%.0fGiB", p.PhysicalCores, p.MemoryGiB, p.RawStorage())
}

// Profile bounds. A node outside them is rejected as a catalog entry.
const (
	MaxProfileCores         = 1024
	MaxProfileThreads       = 4096
	MaxProfileMemoryGiB     = 65_536
	MaxProfileDevices       = 256
	MaxProfileDeviceSizeGiB = 262_144
	MaxProfileStorageGiB    = 1_048_576
)

// Validate checks the profile fields the engine depends on. All failures
// are joined.
func (p HardwareProfile) Validate() error {
	var checks []error
	if p.Name == "" {
		checks = append(checks, &ValidationError{Field: "profile.name", Message: "must not be empty"})
	}
	checks = append(checks,
		checkRange("profile.physical_cores", float64(p.PhysicalCores), 1, MaxProfileCores),
		checkRange("profile.threads", float64(p.Threads), 0, MaxProfileThreads),
		checkRange("profile.memory_gib", p.MemoryGiB, 1, MaxProfileMemoryGiB),
		checkRange("profile.device_count", float64(p.DeviceCount), 0, MaxProfileDevices),
		checkRange("profile.device_size_gib", p.DeviceSizeGiB, 0, MaxProfileDeviceSizeGiB),
		checkRange("profile.raw_storage_gib", p.RawStorageGiB, 0, MaxProfileStorageGiB),
	)
	devicesInRange := p.DeviceCount <= MaxProfileDevices && p.DeviceSizeGiB <= MaxProfileDeviceSizeGiB
	if p.RawStorageGiB == 0 && devicesInRange && p.RawStorage() > MaxProfileStorageGiB {
		checks = append(checks, &ValidationError{Field: "profile.raw_storage_gib", Value: p.RawStorage(), Min: 0, Max: MaxProfileStorageGiB})
	}
	return joinChecks(checks)
}
