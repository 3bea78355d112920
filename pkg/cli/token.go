package cli

import (
	"context"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/voiceops-lab/mnemosyne/pkg/cli/config"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/repository/memory"
	"github.com/voiceops-lab/mnemosyne/pkg/usecase"
)

func cmdToken() *cli.Command {
	var tenantID string
	var ttl time.Duration
	var authCfg config.Auth
	var tenantsCfg config.Tenants

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "tenant",
			Usage:       "Tenant ID to issue a token for (required)",
			Required:    true,
			Destination: &tenantID,
		},
		&cli.DurationFlag{
			Name:        "ttl",
			Usage:       "Token lifetime",
			Value:       usecase.DefaultTokenTTL,
			Destination: &ttl,
		},
	}

	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, tenantsCfg.Flags()...)

	return &cli.Command{
		Name:    "token",
		Aliases: []string{"t"},
		Usage:   "Issue an API token for a tenant",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			authSecret, err := authCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure auth")
			}

			registry, err := tenantsCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load tenant registry")
			}

			uc := usecase.New(memory.New(), registry, authSecret,
				usecase.WithTokenTTL(ttl),
			)

			token, err := uc.IssueToken(ctx, types.TenantID(tenantID))
			if err != nil {
				return goerr.Wrap(err, "failed to issue token", goerr.V("tenant", tenantID))
			}

			color.New(color.FgCyan).Printf("Tenant:  %s\n", tenantID)
			color.New(color.FgCyan).Printf("Expires: %s\n", time.Now().UTC().Add(ttl).Format(time.RFC3339))
			color.New(color.FgGreen, color.Bold).Println(token)
			return nil
		},
	}
}
