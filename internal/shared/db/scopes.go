package db

import (
	"gorm.io/gorm"

	"github.com/wardgate/wardgate/internal/shared/constants"
)

// Paginate is a GORM scope applying LIMIT/OFFSET for 1-based pages. Non-positive values
// fall back to the defaults and the page size is capped at constants.MaxPageSize.
//
//	db.Scopes(db.Paginate(filter.Page, filter.PageSize)).Find(&roles)
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = constants.DefaultPage
		}
		if pageSize < 1 {
			pageSize = constants.DefaultPageSize
		}
		if pageSize > constants.MaxPageSize {
			pageSize = constants.MaxPageSize
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}
