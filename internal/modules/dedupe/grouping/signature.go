package grouping

import (
	"sort"
	"strings"

	"github.com/yungbote/medialib-admin/internal/domain"
	"github.com/yungbote/medialib-admin/internal/modules/dedupe/similarity"
)

// Signature identifies a group across scans: the normalized representative
// name plus the sorted list of member categories. IDs are left out so ID
// churn in the catalog does not invalidate a stored decision.
func Signature(name string, members []domain.CatalogEntity) string {
	cats := make([]string, 0, len(members))
	for _, m := range members {
		cats = append(cats, string(m.Category))
	}
	sort.Strings(cats)
	return similarity.Normalize(name) + "|" + strings.Join(cats, ",")
}

// ManualSignature is recorded for merges started outside a scanned group.
func ManualSignature(keep, del domain.EntityRef) string {
	return "manual:" + keep.Key() + "|" + del.Key()
}
