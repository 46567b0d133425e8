package merge

import (
	"strings"

	"github.com/yungbote/medialib-admin/internal/domain"
)

// mapFields projects a record onto another category's schema. Every category
// carries a display name, a secondary-language name and a description, so
// the projection only relabels the record; CategorySpec owns the column
// names.
func mapFields(src domain.EntityRecord, to domain.Category) domain.EntityRecord {
	return domain.EntityRecord{
		Category:      to,
		Name:          strings.TrimSpace(src.Name),
		SecondaryName: strings.TrimSpace(src.SecondaryName),
		Description:   strings.TrimSpace(src.Description),
	}
}

// needsFill reports whether keep is missing a field that donor can supply.
func needsFill(keep, donor domain.EntityRecord) bool {
	return (strings.TrimSpace(keep.SecondaryName) == "" && donor.SecondaryName != "") ||
		(strings.TrimSpace(keep.Description) == "" && donor.Description != "")
}
