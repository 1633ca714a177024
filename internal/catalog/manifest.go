// ABOUTME: TOML manifest of static resources merged into the registry.
// ABOUTME: Loads, expands ${VAR} references, validates, then registers.

package catalog

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/2389/mcpd/internal/mcp"
)

// envVarPattern matches ${VAR} style references in manifest values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Manifest declares static resources to expose through resources/list.
type Manifest struct {
	Resources []ManifestResource `toml:"resources"`
}

// ManifestResource is one resource entry in the manifest file.
type ManifestResource struct {
	URI         string `toml:"uri"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	MIMEType    string `toml:"mime_type"`
}

// LoadManifest reads and validates a manifest file. Environment variable
// references in any value are expanded before parsing.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	expanded := expandEnvVars(string(data))

	var m Manifest
	if err := toml.Unmarshal([]byte(expanded), &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	return &m, nil
}

// expandEnvVars replaces ${VAR} references with environment values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}

// Validate checks that every resource has a URI and a name and that no URI
// repeats within the file.
func (m *Manifest) Validate() error {
	seen := make(map[string]struct{}, len(m.Resources))
	for i, res := range m.Resources {
		if res.URI == "" {
			return fmt.Errorf("resource %d: uri is required", i)
		}
		if res.Name == "" {
			return fmt.Errorf("resource '%s': name is required", res.URI)
		}
		if _, dup := seen[res.URI]; dup {
			return fmt.Errorf("resource '%s': duplicate uri", res.URI)
		}
		seen[res.URI] = struct{}{}
	}
	return nil
}

// ApplyManifest registers every manifest resource with the registry.
func (r *Registry) ApplyManifest(m *Manifest) error {
	for _, res := range m.Resources {
		desc := mcp.ResourceDescriptor{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MIMEType:    res.MIMEType,
		}
		if err := r.RegisterResource(desc); err != nil {
			return err
		}
	}

	r.logger.Info("resource manifest applied", "resource_count", len(m.Resources))
	return nil
}
