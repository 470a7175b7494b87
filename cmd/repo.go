package cmd

import (
	"context"

	"github.com/foomo/itemmodel/pkg/repo"
	keelhttp "github.com/foomo/keel/net/http"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func addRepoFlags(flags *pflag.FlagSet, v *viper.Viper) {
	addPollFlag(flags, v)
	addPollIntervalFlag(flags, v)
	addHistoryFlags(flags, v)
	addStallThresholdFlag(flags, v)
	addRepositoryTimeoutFlag(flags, v)
}

func addHistoryFlags(flags *pflag.FlagSet, v *viper.Viper) {
	addHistoryDirFlag(flags, v)
	addHistoryLimitFlag(flags, v)
	addStorageURLFlag(flags, v)
	addStoragePrefixFlag(flags, v)
}

// newHistory creates the snapshot storage selected by the storage flags
func newHistory(ctx context.Context, l *zap.Logger, v *viper.Viper) (*repo.History, error) {
	storageURL := storageURLFlag(v)
	if storageURL == "" {
		storageURL = historyDirFlag(v)
	}
	if storagePrefixFlag(v) != "" && !repo.IsBlobURL(storageURL) {
		l.Warn("storage prefix is only used by blob storage and will be ignored",
			zap.String("storage_url", storageURL),
			zap.String("storage_prefix", storagePrefixFlag(v)),
		)
	}
	l.Info("creating storage", zap.String("url", storageURL))
	storage, err := repo.NewStorage(ctx, storageURL, storagePrefixFlag(v))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create storage")
	}

	history, err := repo.NewHistory(l.Named("inst.history"),
		repo.HistoryWithStorage(storage),
		repo.HistoryWithHistoryLimit(historyLimitFlag(v)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create history")
	}
	return history, nil
}

// newRepo creates the history and a repo loading flows from url
func newRepo(ctx context.Context, l *zap.Logger, v *viper.Viper, url string) (*repo.Repo, *repo.History, error) {
	history, err := newHistory(ctx, l, v)
	if err != nil {
		return nil, nil, err
	}

	r := repo.New(l.Named("inst.repo"),
		url,
		history,
		repo.WithHTTPClient(
			keelhttp.NewHTTPClient(
				keelhttp.HTTPClientWithTimeout(repositoryTimeoutFlag(v)),
				keelhttp.HTTPClientWithTelemetry(),
			),
		),
		repo.WithPollInterval(pollIntervalFlag(v)),
		repo.WithPoll(pollFlag(v)),
		repo.WithStallThreshold(stallThresholdFlag(v)),
	)
	return r, history, nil
}

func urlArgCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var comps []string
	if len(args) == 0 {
		comps = cobra.AppendActiveHelp(comps, "You must specify the URL of the flow document")
	} else {
		comps = cobra.AppendActiveHelp(comps, "This command does not take any more arguments")
	}
	return comps, cobra.ShellCompDirectiveNoFileComp
}
