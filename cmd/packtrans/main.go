// packtrans 把词典译文合并进双语提示词包 JSON 文档
package main

import (
	"os"

	"github.com/nerdneilsfield/packtrans/internal/cli"
	"github.com/nerdneilsfield/packtrans/internal/logger"
	"go.uber.org/zap"
)

// 版本信息，发布时通过 -ldflags "-X main.Version=..." 注入
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	rootCmd := cli.NewRootCommand(Version, Commit, BuildDate)
	if err := rootCmd.Execute(); err != nil {
		// 命令内部的日志级别由配置决定，这里的错误始终输出
		log := logger.NewLogger(false)
		log.Error("packtrans failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}
