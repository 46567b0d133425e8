package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/medialib-admin/internal/domain"
	"github.com/yungbote/medialib-admin/internal/services"
)

// Opener builds the dedupe service; the returned func releases it.
type Opener func() (services.DedupeService, func(), error)

func RootCommand(open Opener) *cobra.Command {
	var timeout time.Duration
	rootCmd := &cobra.Command{
		Use:          "dedupectl",
		Short:        "Find and merge duplicate media library entities",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "abort the operation after this long")

	run := func(cmd *cobra.Command, fn func(ctx context.Context, svc services.DedupeService) (any, error)) error {
		svc, closeFn, err := open()
		if err != nil {
			return err
		}
		defer closeFn()
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		out, err := fn(ctx, svc)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	rootCmd.AddCommand(
		scanCommand(run),
		historyCommand(run),
		mergeCommand(run),
		reclassifyCommand(run),
	)
	return rootCmd
}

type runFunc func(cmd *cobra.Command, fn func(ctx context.Context, svc services.DedupeService) (any, error)) error

func scanCommand(run runFunc) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the catalog for duplicates and replay approved merges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc services.DedupeService) (any, error) {
				return svc.Scan(ctx, services.ScanOptions{DryRun: dryRun})
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report planned replays without merging")
	return cmd
}

func historyCommand(run runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or reset the merge decision ledger",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded approvals and declines, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc services.DedupeService) (any, error) {
				entries, err := svc.History(ctx)
				if err != nil {
					return nil, err
				}
				if entries == nil {
					entries = []*domain.HistoryEntry{}
				}
				return entries, nil
			})
		},
	}
	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded decision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("history clear re-enables every declined group; pass --yes to confirm")
			}
			return run(cmd, func(ctx context.Context, svc services.DedupeService) (any, error) {
				if err := svc.ClearHistory(ctx); err != nil {
					return nil, err
				}
				return map[string]bool{"cleared": true}, nil
			})
		},
	}
	clearCmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing the ledger")
	forget := &cobra.Command{
		Use:   "forget <signature>",
		Short: "Delete the decision recorded for one group signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc services.DedupeService) (any, error) {
				if err := svc.ForgetHistory(ctx, args[0]); err != nil {
					return nil, err
				}
				return map[string]string{"forgotten": args[0]}, nil
			})
		},
	}
	cmd.AddCommand(list, clearCmd, forget)
	return cmd
}

func mergeCommand(run runFunc) *cobra.Command {
	var keepRaw, delRaw string
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge one entity into another",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keep, err := domain.ParseEntityRef(keepRaw)
			if err != nil {
				return fmt.Errorf("--keep: %w", err)
			}
			del, err := domain.ParseEntityRef(delRaw)
			if err != nil {
				return fmt.Errorf("--delete: %w", err)
			}
			return run(cmd, func(ctx context.Context, svc services.DedupeService) (any, error) {
				return svc.ManualMerge(ctx, keep, del)
			})
		},
	}
	cmd.Flags().StringVar(&keepRaw, "keep", "", "surviving entity as category:id")
	cmd.Flags().StringVar(&delRaw, "delete", "", "entity to merge away as category:id")
	_ = cmd.MarkFlagRequired("keep")
	_ = cmd.MarkFlagRequired("delete")
	return cmd
}

func reclassifyCommand(run runFunc) *cobra.Command {
	var entityRaw, toRaw string
	cmd := &cobra.Command{
		Use:   "reclassify",
		Short: "Move an entity into another category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := domain.ParseEntityRef(entityRaw)
			if err != nil {
				return fmt.Errorf("--entity: %w", err)
			}
			to, err := domain.ParseCategory(toRaw)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			return run(cmd, func(ctx context.Context, svc services.DedupeService) (any, error) {
				return svc.Reclassify(ctx, src, to)
			})
		},
	}
	cmd.Flags().StringVar(&entityRaw, "entity", "", "entity to move as category:id")
	cmd.Flags().StringVar(&toRaw, "to", "", "target category")
	_ = cmd.MarkFlagRequired("entity")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
