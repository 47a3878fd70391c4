package main

import (
	"github.com/spf13/cobra"

	"github.com/houzhh15/mt-console/pkg/api"
)

func newAPIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "对外 API 与密钥管理",
	}
	cmd.AddCommand(newAPIKeyPageCmd())
	cmd.AddCommand(newAPIKeyListCmd())
	cmd.AddCommand(newAPIKeyGetCmd())
	cmd.AddCommand(newAPIKeyCreateCmd())
	cmd.AddCommand(newAPIKeyUpdateCmd())
	cmd.AddCommand(newAPIKeyDeleteCmd())
	cmd.AddCommand(newAPIKeyToggleCmd())
	cmd.AddCommand(newAPIKeyRegenerateCmd())
	return cmd
}

func newAPIKeyPageCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "page",
		Short: "分页查询 API 配置",
		RunE: withApp(pageAPI, func(cmd *cobra.Command, args []string, a *app) error {
			page, err := a.svc.APIConfigs.Page(cmd.Context(), pageQuery(cmd))
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, page)
		}),
	}
	addPageFlags(c, 10)
	return c
}

func newAPIKeyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出当前用户的全部 API 配置",
		RunE: withApp(pageAPI, func(cmd *cobra.Command, args []string, a *app) error {
			list, err := a.svc.APIConfigs.List(cmd.Context())
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, list)
		}),
	}
}

func newAPIKeyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "获取 API 配置详情",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageAPI, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "api config id")
			if err != nil {
				return err
			}
			cfg, err := a.svc.APIConfigs.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, cfg)
		}),
	}
}

func apiConfigFlags(c *cobra.Command) {
	c.Flags().String("name", "", "API 名称")
	c.Flags().String("description", "", "描述")
	c.Flags().Int64("db-config-id", 0, "数据库配置ID")
}

func apiConfigFromFlags(cmd *cobra.Command) api.APIConfig {
	cfg := api.APIConfig{}
	cfg.APIName, _ = cmd.Flags().GetString("name")
	cfg.Description, _ = cmd.Flags().GetString("description")
	cfg.DBConfigID, _ = cmd.Flags().GetInt64("db-config-id")
	return cfg
}

func newAPIKeyCreateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "create",
		Short: "创建 API 配置并生成密钥",
		RunE: withApp(pageAPI, func(cmd *cobra.Command, args []string, a *app) error {
			created, err := a.svc.APIConfigs.Create(cmd.Context(), apiConfigFromFlags(cmd))
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, created)
		}),
	}
	apiConfigFlags(c)
	_ = c.MarkFlagRequired("name")
	return c
}

func newAPIKeyUpdateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "update <id>",
		Short: "更新 API 配置",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageAPI, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "api config id")
			if err != nil {
				return err
			}
			if err := a.svc.APIConfigs.Update(cmd.Context(), id, apiConfigFromFlags(cmd)); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "API 配置已更新")
		}),
	}
	apiConfigFlags(c)
	return c
}

func newAPIKeyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "删除 API 配置",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageAPI, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "api config id")
			if err != nil {
				return err
			}
			if err := a.svc.APIConfigs.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "API 配置已删除")
		}),
	}
}

func newAPIKeyToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "切换 API 启用状态",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageAPI, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "api config id")
			if err != nil {
				return err
			}
			if err := a.svc.APIConfigs.ToggleStatus(cmd.Context(), id); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "API 状态已切换")
		}),
	}
}

func newAPIKeyRegenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate <id>",
		Short: "重新生成 API 密钥",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageAPI, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "api config id")
			if err != nil {
				return err
			}
			cfg, err := a.svc.APIConfigs.RegenerateKey(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, cfg)
		}),
	}
}
