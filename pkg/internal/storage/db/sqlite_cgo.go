//go:build !no_sqlite && cgo

package db

import (
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeisme/pixels/pkg/configs"
)

// CGo 版本.
func init() {
	RegisterDialectorFactory(func(dsn string) gorm.Dialector {
		if !strings.Contains(dsn, "busy_timeout") {
			dsn = appendQuery(dsn, "_busy_timeout=5000")
		}

		return sqlite.Open(dsn)
	}, configs.SQLite)
}
