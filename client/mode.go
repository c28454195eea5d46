package client

import (
	"context"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Mode says which frontend a client instance serves: the public signup
// site or the admin panel. The two can live on different hosts, each
// with its own API base URL override.
type Mode string

const (
	ModePublic Mode = "public"
	ModeAdmin  Mode = "admin"
)

// EnvConfig is the client-side configuration, resolved once at startup.
type EnvConfig struct {
	Mode          string `env:"CLUBHUB_MODE, default=public"`
	PublicAPIBase string `env:"CLUBHUB_PUBLIC_API_BASE"`
	AdminAPIBase  string `env:"CLUBHUB_ADMIN_API_BASE"`
}

func LoadEnvConfig(ctx context.Context) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

func (cfg EnvConfig) BaseURL() string {
	return ResolveBaseURL(cfg.Mode, cfg.PublicAPIBase, cfg.AdminAPIBase)
}

// ResolveBaseURL picks the effective API base URL for the given mode.
// Inputs are trimmed and exactly one trailing slash is stripped; an
// empty or whitespace-only override counts as unset. Admin mode prefers
// the admin override, anything else the public one. An unset selection
// resolves to "" which means same-origin requests.
func ResolveBaseURL(mode, publicBase, adminBase string) string {
	selected := publicBase
	if Mode(strings.TrimSpace(mode)) == ModeAdmin {
		selected = adminBase
	}

	selected = strings.TrimSpace(selected)
	selected = strings.TrimSuffix(selected, "/")
	return selected
}
