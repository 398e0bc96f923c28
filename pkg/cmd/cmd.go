// Package cmd 提供 pixels 命令行入口.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yeisme/pixels/pkg/configs"
)

var (
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:           configs.AppName,
		Short:         "Pixels Gallery image catalog backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		// 未指定子命令时直接启动服务
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "config file or directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose output")

	registerServeCommands()
	registerConfigsCommands()
	registerDBCommands()
	registerKVCommands()
	registerMQCommands()
	registerVersionCommands()
}

// loadConfig 供需要配置的子命令使用.
func loadConfig(*cobra.Command, []string) error {
	return configs.InitConfig(configPath)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
