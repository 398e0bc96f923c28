package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/pixels/pkg/configs"
	mq "github.com/yeisme/pixels/pkg/internal/storage/mq"
)

var (
	mqCmd = &cobra.Command{
		Use:     "mq",
		Short:   "Event bus (mq) commands",
		Aliases: []string{"messagequeue"},
	}

	mqListCmd = &cobra.Command{
		Use:     "ls",
		Short:   "list registered mq backends, marking the configured one",
		Aliases: []string{"list"},
		PreRunE: loadConfig,
		Run: func(cmd *cobra.Command, args []string) {
			current := configs.GetConfig().MQ.GetMQType()

			for _, t := range mq.GetRegisteredTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), marker(t == current)+string(t))
			}
		},
	}

	mqPingCmd = &cobra.Command{
		Use:     "ping",
		Short:   "connect to the configured mq backend and ping it",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
			defer cancel()

			client, err := mq.New(ctx, &configs.GetConfig().MQ)
			if err != nil {
				return fmt.Errorf("connect mq: %w", err)
			}
			defer client.Close()

			if err := client.Ping(ctx); err != nil {
				return fmt.Errorf("ping %s: %w", client.Type(), err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "mq %s ok\n", client.Type())

			return nil
		},
	}
)

// registerMQCommands 注册 MQ 相关命令.
func registerMQCommands() {
	rootCmd.AddCommand(mqCmd)
	mqCmd.AddCommand(mqListCmd, mqPingCmd)
}
