package db

import "strings"

// appendQuery 向 DSN 追加查询参数.
func appendQuery(dsn, kv string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + kv
	}

	return dsn + "?" + kv
}
