package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/genflow/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the durable result cache",
	}
	cmd.AddCommand(newCacheKeyCmd(), newCacheClearCmd())
	return cmd
}

func newCacheKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key <scope> <input>...",
		Short: "Print the content-addressed key an input set resolves under",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyer := cache.FNVKeyer{}
			fmt.Fprintln(cmd.OutOrStdout(), keyer.Key(args[0], args[1:]))
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	var feature string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop a feature's cached results, conversation thread included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.shutdown(context.Background())

			for _, kind := range []string{"results", "thread"} {
				ns := rt.namespace(feature, kind)
				if err := ns.Validate(); err != nil {
					return err
				}
				_ = rt.backend.Delete(ns.Key())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "cleared cache for feature %q\n", feature)
			return nil
		},
	}

	cmd.Flags().StringVar(&feature, "feature", "cli", "feature whose cache to clear")
	return cmd
}
