package service

import (
	"database/sql"

	"gorm.io/gorm"
)

// Transactor abstracts gorm's transaction entry point. *gorm.DB satisfies it
// directly; tests substitute a fake that runs the callback without a
// database. Repositories receive the tx handle and never keep their own
// global connection.
type Transactor interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}
