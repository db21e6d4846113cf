package config

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/userconfig"
)

//go:embed inventory.yaml
var embeddedInventory []byte

// LoadEmbedded parses the inventory bundled with the binary.
func LoadEmbedded() (*inventory.Inventory, error) {
	return parse(embeddedInventory)
}

// Load parses an inventory file from disk.
func Load(path string) (*inventory.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func parse(data []byte) (*inventory.Inventory, error) {
	var inv inventory.Inventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, err
	}
	if inv.Caches == nil {
		inv.Caches = make(map[string][]string)
	}
	return &inv, nil
}

// Merge applies user preferences to inv. Protected patterns and cache paths
// are only ever added; user config cannot remove a built-in protection.
func Merge(inv *inventory.Inventory, user *userconfig.UserConfig) *inventory.Inventory {
	if user == nil {
		return inv
	}
	merged := *inv
	merged.Protected = inv.Protected.With(user.Protected)

	merged.Caches = make(map[string][]string, len(inv.Caches))
	for sub, paths := range inv.Caches {
		merged.Caches[sub] = append([]string(nil), paths...)
	}
	for sub, paths := range user.ExtraCachePaths {
		merged.Caches[sub] = append(merged.Caches[sub], paths...)
	}
	return &merged
}
