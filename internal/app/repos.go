package app

import (
	"gorm.io/gorm"

	catalogrepo "github.com/yungbote/medialib-admin/internal/data/repos/catalog"
	historyrepo "github.com/yungbote/medialib-admin/internal/data/repos/history"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

type Repos struct {
	Catalog catalogrepo.CatalogRepo
	History historyrepo.HistoryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Catalog: catalogrepo.NewCatalogRepo(db, log),
		History: historyrepo.NewHistoryRepo(db, log),
	}
}
