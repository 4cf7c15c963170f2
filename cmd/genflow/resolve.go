package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/genflow/cache"
	"github.com/jonwraymond/genflow/job"
	"github.com/jonwraymond/genflow/orchestrate"
)

func newResolveCmd() *cobra.Command {
	var (
		feature     string
		bypassCache bool
		regenerate  bool
		freshThread bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <scope> <input>...",
		Short: "Resolve a generation request, from cache when possible",
		Long: `Resolve submits a generation job for the given scope and inputs,
polls it to completion, and prints the result as JSON on stdout.
A fresh result is cached; repeating the same inputs within the TTL
answers from cache without a network call. Progress messages go to
stderr while the job runs.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.shutdown(context.Background())
			if rt.client == nil {
				return errNoBaseURL
			}

			scope, inputs := args[0], args[1:]

			if rt.cfg.Timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, rt.cfg.Timeout)
				defer cancel()
			}

			store := cache.NewStore[json.RawMessage](rt.namespace(feature, "results"), cache.DefaultPolicy(), rt.backend)
			store.Load()

			threads := job.NewThreadStore(rt.backend, rt.namespace(feature, "thread"))
			if freshThread {
				threads.Clear()
			}

			o, err := orchestrate.New[json.RawMessage](scope, rt.client,
				orchestrate.WithCache[json.RawMessage](store),
				orchestrate.WithThreads[json.RawMessage](threads),
				orchestrate.WithFeature[json.RawMessage](feature),
				orchestrate.WithInstrument[json.RawMessage](rt.inst),
			)
			if err != nil {
				return err
			}

			onStatus := func(msg string) {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}

			var result json.RawMessage
			if regenerate {
				result, err = o.Regenerate(ctx, inputs)
			} else {
				result, err = o.Resolve(ctx, inputs, orchestrate.ResolveOptions{
					BypassCache: bypassCache,
					OnStatus:    onStatus,
				})
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(result))
			return nil
		},
	}

	cmd.Flags().StringVar(&feature, "feature", "cli", "feature name segmenting the cache namespace")
	cmd.Flags().BoolVar(&bypassCache, "bypass-cache", false, "skip the cache entirely, leaving cached results intact")
	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "force a fresh generation and overwrite the cached result")
	cmd.Flags().BoolVar(&freshThread, "fresh-thread", false, "start a new conversation thread")
	cmd.MarkFlagsMutuallyExclusive("bypass-cache", "regenerate")
	return cmd
}
