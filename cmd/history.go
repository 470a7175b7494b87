package cmd

import (
	"fmt"
	"time"

	"github.com/foomo/itemmodel/pkg/repo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func NewHistoryCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the stored flow document snapshots",
	}
	addHistoryFlags(cmd.PersistentFlags(), v)

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List snapshots, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withHistory(cmd, v, func(h *repo.History) error {
					snapshots, err := h.Snapshots(cmd.Context())
					if err != nil {
						return err
					}
					for _, s := range snapshots {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.Key, s.Time.Format(time.RFC3339Nano))
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "show <key>",
			Short: "Print a snapshot, the current document without key",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withHistory(cmd, v, func(h *repo.History) error {
					var (
						data []byte
						err  error
					)
					if len(args) == 0 {
						data, err = currentSnapshot(cmd, h)
					} else {
						data, err = h.Get(cmd.Context(), args[0])
					}
					if err != nil {
						return err
					}
					_, err = cmd.OutOrStdout().Write(data)
					return err
				})
			},
		},
	)

	return cmd
}

func withHistory(cmd *cobra.Command, v *viper.Viper, fn func(h *repo.History) error) error {
	l := zap.L().Named("history")
	h, err := newHistory(cmd.Context(), l, v)
	if err != nil {
		return err
	}
	defer func() {
		if err := h.Close(); err != nil {
			l.Warn("failed to close history", zap.Error(err))
		}
	}()
	return fn(h)
}

func currentSnapshot(cmd *cobra.Command, h *repo.History) ([]byte, error) {
	snapshots, err := h.Snapshots(cmd.Context())
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, repo.ErrUnknownSnapshot
	}
	return h.Get(cmd.Context(), snapshots[0].Key)
}
