package types

// RegistryIndexFile is an offline snapshot of registry versions, keyed by
// lowercase package id.
type RegistryIndexFile struct {
	ServiceIndex string              `yaml:"service_index,omitempty"`
	GeneratedAt  string              `yaml:"generated_at,omitempty"`
	Packages     map[string][]string `yaml:"packages"`
}
