package duckdb

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapterm/pkg/adapter"
)

// Params holds DuckDB-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Extensions to install and load (e.g., "httpfs", "json")
	Extensions []string `mapstructure:"extensions"`

	// Secrets for attached remote catalogs
	Secrets []SecretConfig `mapstructure:"secrets"`

	// Settings to apply at session level (e.g., memory_limit, threads)
	Settings map[string]string `mapstructure:"settings"`
}

// SecretConfig defines a DuckDB secret.
type SecretConfig struct {
	// Type: "s3", "gcs", "azure", "r2", "huggingface"
	Type string `mapstructure:"type"`

	// Provider: "config", "credential_chain", "service_account", etc.
	Provider string `mapstructure:"provider"`

	Region string `mapstructure:"region,omitempty"`

	// Scope limits the secret to specific paths (string or []string)
	Scope any `mapstructure:"scope,omitempty"`

	KeyID    string `mapstructure:"key_id,omitempty"`
	Secret   string `mapstructure:"secret,omitempty"`
	Endpoint string `mapstructure:"endpoint,omitempty"`

	// URLStyle: "vhost" or "path" for S3
	URLStyle string `mapstructure:"url_style,omitempty"`

	UseSSL *bool `mapstructure:"use_ssl,omitempty"`
}

func parseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if err := adapter.DecodeParams(raw, p); err != nil {
		return nil, err
	}
	return p, nil
}

// buildCreateSecretSQL renders a CREATE SECRET statement, one option per line.
func buildCreateSecretSQL(cfg SecretConfig) string {
	opts := []string{"TYPE " + cfg.Type}
	if cfg.Provider != "" {
		opts = append(opts, "PROVIDER "+cfg.Provider)
	}
	if cfg.Region != "" {
		opts = append(opts, "REGION "+quote(cfg.Region))
	}
	if scope := scopeSQL(cfg.Scope); scope != "" {
		opts = append(opts, "SCOPE "+scope)
	}
	if cfg.KeyID != "" {
		opts = append(opts, "KEY_ID "+quote(cfg.KeyID))
	}
	if cfg.Secret != "" {
		opts = append(opts, "SECRET "+quote(cfg.Secret))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, "ENDPOINT "+quote(cfg.Endpoint))
	}
	if cfg.URLStyle != "" {
		opts = append(opts, "URL_STYLE "+quote(cfg.URLStyle))
	}
	if cfg.UseSSL != nil {
		opts = append(opts, fmt.Sprintf("USE_SSL %t", *cfg.UseSSL))
	}
	return "CREATE SECRET (\n    " + strings.Join(opts, ",\n    ") + "\n)"
}

func scopeSQL(scope any) string {
	var paths []string
	switch s := scope.(type) {
	case string:
		if s == "" {
			return ""
		}
		return quote(s)
	case []string:
		paths = s
	case []any:
		for _, v := range s {
			paths = append(paths, fmt.Sprint(v))
		}
	default:
		return ""
	}
	if len(paths) == 0 {
		return ""
	}
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = quote(p)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
