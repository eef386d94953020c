// ABOUTME: Static hardware profiles shipped with the sizer
// ABOUTME: Used when no catalog file or remote catalog is configured

package catalog

import (
	"context"

	"github.com/markalston/vm-migration-sizer/models"
)

var bundledProfiles = []models.HardwareProfile{
	{Name: "nvme-16c-128g", Vendor: "generic", PhysicalCores: 16, Threads: 32, MemoryGiB: 128, DeviceCount: 4, DeviceSizeGiB: 3840, SupportsTargetPlatform: true},
	{Name: "nvme-32c-256g", Vendor: "generic", PhysicalCores: 32, Threads: 64, MemoryGiB: 256, DeviceCount: 8, DeviceSizeGiB: 3200, SupportsTargetPlatform: true},
	{Name: "nvme-32c-512g", Vendor: "generic", PhysicalCores: 32, Threads: 64, MemoryGiB: 512, DeviceCount: 8, DeviceSizeGiB: 3840, SupportsTargetPlatform: true},
	{Name: "nvme-48c-768g", Vendor: "generic", PhysicalCores: 48, Threads: 96, MemoryGiB: 768, DeviceCount: 10, DeviceSizeGiB: 7680, SupportsTargetPlatform: true},
	{Name: "nvme-64c-1024g", Vendor: "generic", PhysicalCores: 64, Threads: 128, MemoryGiB: 1024, DeviceCount: 12, DeviceSizeGiB: 7680, SupportsTargetPlatform: true},
	{Name: "sas-24c-192g", Vendor: "generic", PhysicalCores: 24, Threads: 48, MemoryGiB: 192, DeviceCount: 6, DeviceSizeGiB: 1920, SupportsTargetPlatform: false},
}

// Bundled returns a copy of the built-in profiles.
func Bundled() []models.HardwareProfile {
	out := make([]models.HardwareProfile, len(bundledProfiles))
	copy(out, bundledProfiles)
	return out
}

// BundledSource serves the built-in profiles.
type BundledSource struct{}

func (BundledSource) Name() string { return "bundled" }

func (BundledSource) Profiles(_ context.Context) ([]models.HardwareProfile, error) {
	return Bundled(), nil
}
