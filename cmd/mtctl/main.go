package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mtctl",
		Short:         "mt-console CLI - 数据问答管理控制台命令行工具",
		Long:          "通过命令行调用管理控制台后端 HTTP API：登录、数据库与表结构、知识库、API 密钥、工具与数据问答。",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// 添加全局标志
	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newRouteCmd())
	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newDBCmd())
	rootCmd.AddCommand(newSchemaCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newKnowledgeCmd())
	rootCmd.AddCommand(newAPIKeyCmd())
	rootCmd.AddCommand(newToolCmd())
	rootCmd.AddCommand(newDataCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newProbeCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
