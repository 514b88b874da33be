package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"apibridge/config"
	"apibridge/provider"
)

func newModelsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models (or AnythingLLM workspaces) of the provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := provider.BuildHandler(opts.cfg.API)
			if err != nil {
				return err
			}

			models, err := provider.ListModels(cmd.Context(), h)
			if err != nil {
				return err
			}

			current := h.GetModel().ID
			for _, m := range models {
				marker := "  "
				if m == current {
					marker = "* "
				}
				fmt.Fprintln(cmd.OutOrStdout(), marker+m)
			}
			return nil
		},
	}
}

// resolveModel applies a --model query to cfg. When the provider can list its
// models the query is fuzzy matched against them; otherwise it is used as is.
func resolveModel(ctx context.Context, cfg config.ApiConfiguration, query string) (config.ApiConfiguration, error) {
	if query == "" {
		return cfg, nil
	}

	modelID := query
	if h, err := provider.BuildHandler(cfg); err == nil {
		if models, err := provider.ListModels(ctx, h); err == nil {
			if modelID, err = provider.MatchModel(query, models); err != nil {
				return cfg, err
			}
		} else {
			config.Debugf("[CLI] Model listing unavailable, using %q verbatim: %v", query, err)
		}
	}

	return provider.WithModel(cfg, modelID)
}
