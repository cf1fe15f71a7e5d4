package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	check := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and data files without serving",
	}
	check.AddCommand(
		&cobra.Command{
			Use:   "locales",
			Short: "Compare every dictionary against the primary one",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := opts.load()
				if err != nil {
					return err
				}
				bundle, err := loadBundle(cfg)
				if err != nil {
					return err
				}
				if err := bundle.Check(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "dictionaries ok: %d keys in %v\n",
					len(bundle.Keys(bundle.Primary())), bundle.Supported())
				return nil
			},
		},
		&cobra.Command{
			Use:   "content",
			Short: "Validate the plant catalogue for every supported language",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := opts.load()
				if err != nil {
					return err
				}
				store, err := loadContent(cfg)
				if err != nil {
					return err
				}
				if err := store.Validate(cfg.I18n.Supported); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "content ok: %d plants\n", store.Len())
				return nil
			},
		},
	)
	return check
}
