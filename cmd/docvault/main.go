// Package main 启动应用程序
package main

import "github.com/yeisme/docvault/pkg/cmd"

//	@title			DocVault API
//	@version		1.0
//	@description	DocVault 是一个安全的文件上传与存储服务，提供内容校验、安全扫描、配额控制和文件管理等功能。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

//	@contact.name	yeisme
//	@contact.email	yefun2004@gmail.com.

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
