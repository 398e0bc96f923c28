package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yeisme/pixels/pkg/configs"
	kv "github.com/yeisme/pixels/pkg/internal/storage/kv"
)

// pingTimeout 命令行连通性检查的超时.
const pingTimeout = 5 * time.Second

var (
	kvCmd = &cobra.Command{
		Use:     "kv",
		Short:   "Cache backend (kv) commands",
		Aliases: []string{"keyvalue"},
	}

	kvListCmd = &cobra.Command{
		Use:     "ls",
		Short:   "list registered kv backends, marking the configured one",
		Aliases: []string{"list"},
		PreRunE: loadConfig,
		Run: func(cmd *cobra.Command, args []string) {
			current := kv.KVType(configs.GetConfig().KV.GetKVType())

			for _, t := range kv.GetRegisteredKVTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), marker(t == current)+string(t))
			}
		},
	}

	kvPingCmd = &cobra.Command{
		Use:     "ping",
		Short:   "connect to the configured kv backend and ping it",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
			defer cancel()

			client, err := kv.NewKVClient(ctx, &configs.GetConfig().KV)
			if err != nil {
				return fmt.Errorf("connect kv: %w", err)
			}
			defer client.Close()

			if err := client.Ping(ctx); err != nil {
				return fmt.Errorf("ping %s: %w", client.Type(), err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "kv %s ok\n", client.Type())

			return nil
		},
	}
)

// marker 标出当前配置使用的后端.
func marker(current bool) string {
	if current {
		return " * "
	}

	return "   "
}

// registerKVCommands 注册 KV 相关命令.
func registerKVCommands() {
	rootCmd.AddCommand(kvCmd)
	kvCmd.AddCommand(kvListCmd, kvPingCmd)
}
