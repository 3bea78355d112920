package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/logging"
)

// Tenants holds CLI flags for the tenant registry file
type Tenants struct {
	path string
}

// Flags returns CLI flags for tenant registry configuration
func (t *Tenants) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tenants-file",
			Usage:       "Path to TOML file listing onboarded tenants",
			Required:    true,
			Sources:     cli.EnvVars("MNEMOSYNE_TENANTS_FILE"),
			Destination: &t.path,
		},
	}
}

type tenantFile struct {
	Tenants []tenantEntry `toml:"tenants"`
}

type tenantEntry struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// Configure loads the tenant registry from the configured TOML file.
//
// Example file:
//
//	[[tenants]]
//	id = "acme"
//	name = "Acme Corp"
func (t *Tenants) Configure() (*model.TenantRegistry, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read tenants file", goerr.V("path", t.path))
	}

	var file tenantFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse tenants file", goerr.V("path", t.path))
	}

	if len(file.Tenants) == 0 {
		return nil, goerr.New("tenants file has no tenants", goerr.V("path", t.path))
	}

	registry := model.NewTenantRegistry()
	for _, entry := range file.Tenants {
		if entry.ID == "" {
			return nil, goerr.New("tenant entry has empty id", goerr.V("path", t.path))
		}
		registry.Register(&model.Tenant{
			ID:   types.TenantID(entry.ID),
			Name: entry.Name,
		})
	}

	logging.Default().Info("Loaded tenant registry",
		"path", t.path,
		"tenants", len(file.Tenants),
	)
	return registry, nil
}
