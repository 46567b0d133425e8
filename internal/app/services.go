package app

import (
	"fmt"

	catalogrepo "github.com/yungbote/medialib-admin/internal/data/repos/catalog"
	"github.com/yungbote/medialib-admin/internal/modules/dedupe/catalog"
	"github.com/yungbote/medialib-admin/internal/modules/dedupe/grouping"
	"github.com/yungbote/medialib-admin/internal/modules/dedupe/history"
	"github.com/yungbote/medialib-admin/internal/modules/dedupe/merge"
	"github.com/yungbote/medialib-admin/internal/observability"
	"github.com/yungbote/medialib-admin/internal/platform/gcp"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
	"github.com/yungbote/medialib-admin/internal/services"
)

type Services struct {
	Reader   *catalog.Reader
	Executor *merge.Executor
	History  *history.Store
	Dedupe   services.DedupeService
	Policy   *grouping.Policy
}

func wireServices(
	log *logger.Logger,
	cfg Config,
	repos Repos,
	bucket gcp.BucketService,
	kv history.KV,
	metrics *observability.DedupeMetrics,
) (Services, error) {
	log.Info("Wiring services...")

	policy, err := grouping.LoadPolicy(cfg.ComparabilityConfig)
	if err != nil {
		return Services{}, fmt.Errorf("load comparability policy: %w", err)
	}
	if cfg.ComparabilityConfig != "" {
		log.Info("Comparability policy loaded", "path", cfg.ComparabilityConfig,
			"default", policy.Default, "same_category", policy.SameCategory)
	}

	store := catalogrepo.NewStore(repos.Catalog)

	// A nil bucket must reach the modules as a nil interface.
	var (
		images   catalog.ImageIndex
		imgStore merge.ImageStore
	)
	if bucket != nil {
		images = bucket
		imgStore = bucket
	}

	reader := catalog.NewReader(log, store, images, cfg.ImageLayout)
	executor := merge.NewExecutor(log, store, store, imgStore, cfg.ImageLayout)
	historyStore := history.NewStore(log, kv)

	dedupe := services.NewDedupeService(log, reader, executor, historyStore, metrics, services.DedupeConfig{
		Threshold:  cfg.FuzzyThreshold,
		CanCompare: policy.Func(),
	})

	return Services{
		Reader:   reader,
		Executor: executor,
		History:  historyStore,
		Dedupe:   dedupe,
		Policy:   policy,
	}, nil
}
