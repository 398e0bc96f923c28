// Package main 启动 Pixels Gallery 后端.
package main

import (
	"fmt"
	"os"

	"github.com/yeisme/pixels/pkg/cmd"
)

//	@title			Pixels Gallery API
//	@version		0.1.0
//	@description	图片目录后端：创建、查询、浏览、点赞与删除图片记录.

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

//	@contact.name	yeisme
//	@contact.email	yefun2004@gmail.com.

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
