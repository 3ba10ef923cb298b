package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/fitstack/telebirr-payments/internal/domain"
)

// PluginFile is a plugin options file: the Telebirr options at the top level
// and an optional "app" section identifying the app being built.
//
//	appId: "..."
//	shortCode: "..."
//	environment: uat
//	app:
//	  bundleIdentifier: com.example.shop
//	  slug: shop
type PluginFile struct {
	Options          domain.PluginOptions
	BundleIdentifier string
	Slug             string
}

// LoadPluginFile reads a YAML, JSON or TOML plugin options file. Only the
// known option keys are extracted; their values keep the decoded types so
// the validator can report type errors.
func LoadPluginFile(path string) (*PluginFile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read plugin config %s: %w", path, err)
	}

	opts := domain.PluginOptions{}
	for _, key := range domain.PluginOptionKeys {
		if v.IsSet(key) {
			opts[key] = v.Get(key)
		}
	}

	return &PluginFile{
		Options:          opts,
		BundleIdentifier: v.GetString("app.bundleIdentifier"),
		Slug:             v.GetString("app.slug"),
	}, nil
}
