package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"karangjaladri.id/mangrove-web/internal/config"
	"karangjaladri.id/mangrove-web/internal/content"
	"karangjaladri.id/mangrove-web/internal/i18n"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "mangrove-web",
		Short: "Karangjaladri mangrove tourism site",
		Long: `mangrove-web serves the Karangjaladri mangrove tourism page: the flora
carousel, lightbox gallery, detail overlay, distribution map and the
Indonesian/English and light/dark toggles.

Without a subcommand it starts the HTTP server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "config file path")

	root.AddCommand(newServeCmd(opts), newCheckCmd(opts))
	return root
}

func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadBundle(cfg *config.Config) (*i18n.Bundle, error) {
	if cfg.Locales.Dir != "" {
		return i18n.LoadDir(cfg.Locales.Dir, cfg.I18n.Primary, cfg.I18n.Supported)
	}
	return i18n.Load(i18n.Embedded(), cfg.I18n.Primary, cfg.I18n.Supported)
}

func loadContent(cfg *config.Config) (*content.Store, error) {
	if cfg.Content.Dir != "" {
		return content.LoadDir(cfg.Content.Dir)
	}
	return content.Load(content.Embedded())
}
