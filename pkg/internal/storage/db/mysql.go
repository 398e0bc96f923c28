//go:build !no_mysql

package db

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/yeisme/pixels/pkg/configs"
)

func init() {
	RegisterDialectorFactory(func(dsn string) gorm.Dialector {
		return mysql.Open(dsn)
	}, configs.MySQL, configs.MariaDB)
}
