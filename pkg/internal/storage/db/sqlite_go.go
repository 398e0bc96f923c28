//go:build !no_sqlite && !cgo

package db

import (
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/yeisme/pixels/pkg/configs"
)

// 纯 Go 版本，busy_timeout 通过 _pragma 参数设置.
func init() {
	RegisterDialectorFactory(func(dsn string) gorm.Dialector {
		if !strings.Contains(dsn, "busy_timeout") {
			dsn = appendQuery(dsn, "_pragma=busy_timeout(5000)")
		}

		return sqlite.Open(dsn)
	}, configs.SQLite)
}
