package client

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBaseURL(t *testing.T) {
	testCases := []struct {
		name       string
		mode       string
		publicBase string
		adminBase  string
		expected   string
	}{
		{
			name:       "public mode picks public base",
			mode:       "public",
			publicBase: "https://api.clubhub.example.com",
			adminBase:  "https://admin-api.clubhub.example.com",
			expected:   "https://api.clubhub.example.com",
		},
		{
			name:       "admin mode picks admin base",
			mode:       "admin",
			publicBase: "https://api.clubhub.example.com",
			adminBase:  "https://admin-api.clubhub.example.com",
			expected:   "https://admin-api.clubhub.example.com",
		},
		{
			name:       "unknown mode falls back to public",
			mode:       "whatever",
			publicBase: "https://api.clubhub.example.com",
			expected:   "https://api.clubhub.example.com",
		},
		{
			name:      "admin mode with unset admin base means same-origin",
			mode:      "admin",
			adminBase: "   ",
			expected:  "",
		},
		{
			name:     "everything unset means same-origin",
			mode:     "",
			expected: "",
		},
		{
			name:       "trailing slash stripped",
			mode:       "public",
			publicBase: "https://api.clubhub.example.com/",
			expected:   "https://api.clubhub.example.com",
		},
		{
			name:       "exactly one trailing slash stripped",
			mode:       "public",
			publicBase: "https://api.clubhub.example.com//",
			expected:   "https://api.clubhub.example.com/",
		},
		{
			name:       "surrounding whitespace trimmed",
			mode:       " admin ",
			adminBase:  "  https://admin-api.clubhub.example.com  ",
			publicBase: "https://api.clubhub.example.com",
			expected:   "https://admin-api.clubhub.example.com",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resolved := ResolveBaseURL(tc.mode, tc.publicBase, tc.adminBase)
			assert.Equal(t, tc.expected, resolved)

			// pure: same inputs, same output
			assert.Equal(t, resolved, ResolveBaseURL(tc.mode, tc.publicBase, tc.adminBase))
		})
	}
}

func TestResolveBaseURL_TrimIdempotent(t *testing.T) {
	// re-resolving an already resolved base yields the same result
	for _, base := range []string{
		"https://api.clubhub.example.com",
		"https://api.clubhub.example.com/",
		"https://api.clubhub.example.com/v2/",
	} {
		once := ResolveBaseURL("public", base, "")
		twice := ResolveBaseURL("public", once, "")
		assert.Equal(t, once, twice, base)
	}
}

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("CLUBHUB_MODE", "admin")
	t.Setenv("CLUBHUB_PUBLIC_API_BASE", "https://api.clubhub.example.com")
	t.Setenv("CLUBHUB_ADMIN_API_BASE", "https://admin-api.clubhub.example.com/")

	cfg, err := LoadEnvConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", cfg.Mode)
	assert.Equal(t, "https://admin-api.clubhub.example.com", cfg.BaseURL())
}

func TestLoadEnvConfig_Defaults(t *testing.T) {
	for _, key := range []string{"CLUBHUB_MODE", "CLUBHUB_PUBLIC_API_BASE", "CLUBHUB_ADMIN_API_BASE"} {
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := LoadEnvConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "public", cfg.Mode)
	assert.Equal(t, "", cfg.BaseURL())
}
