// ABOUTME: YAML hardware catalog loader
// ABOUTME: Reads and validates a list of profiles from a local file

package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/markalston/vm-migration-sizer/models"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Profiles []models.HardwareProfile `yaml:"profiles"`
}

// Parse decodes a YAML catalog document and validates every profile.
func Parse(data []byte) ([]models.HardwareProfile, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	if err := validateProfiles(doc.Profiles); err != nil {
		return nil, err
	}
	return doc.Profiles, nil
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) ([]models.HardwareProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	profiles, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return profiles, nil
}

// FileSource serves profiles from a YAML file, re-read on every load.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Profiles(_ context.Context) ([]models.HardwareProfile, error) {
	return LoadFile(s.Path)
}

func validateProfiles(profiles []models.HardwareProfile) error {
	if len(profiles) == 0 {
		return fmt.Errorf("catalog contains no profiles")
	}
	seen := make(map[string]bool, len(profiles))
	for i, p := range profiles {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("profile %d: %w", i, err)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate profile name %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
