package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Auth holds CLI flags for API token verification
type Auth struct {
	secret string
}

// Flags returns CLI flags for auth configuration
func (a *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "auth-secret",
			Usage:       "HMAC secret for verifying API tokens",
			Required:    true,
			Sources:     cli.EnvVars("MNEMOSYNE_AUTH_SECRET"),
			Destination: &a.secret,
		},
	}
}

// Configure validates and returns the token signing secret
func (a *Auth) Configure() ([]byte, error) {
	if len(a.secret) < 16 {
		return nil, goerr.New("auth-secret must be at least 16 bytes")
	}
	return []byte(a.secret), nil
}
