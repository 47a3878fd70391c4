package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"
)

func newDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "数据管理向导：业务说明、数据库、数据源、系统工具与我的接口",
	}
	cmd.AddCommand(newDataSectionCmd("business", "业务说明",
		func(ctx context.Context, a *app) (json.RawMessage, error) { return a.svc.Data.BusinessConfig(ctx) },
		func(ctx context.Context, a *app, body json.RawMessage) (json.RawMessage, error) {
			return a.svc.Data.SaveBusinessConfig(ctx, body)
		}))
	cmd.AddCommand(newDataSectionCmd("db-config", "向导数据库配置",
		func(ctx context.Context, a *app) (json.RawMessage, error) { return a.svc.Data.DBConfig(ctx) },
		func(ctx context.Context, a *app, body json.RawMessage) (json.RawMessage, error) {
			return a.svc.Data.SaveDBConfig(ctx, body)
		}))
	cmd.AddCommand(newDataSectionCmd("source", "数据源配置",
		func(ctx context.Context, a *app) (json.RawMessage, error) { return a.svc.Data.DataSource(ctx) },
		func(ctx context.Context, a *app, body json.RawMessage) (json.RawMessage, error) {
			return a.svc.Data.SaveDataSource(ctx, body)
		}))
	cmd.AddCommand(newDataSectionCmd("tools", "已选系统工具",
		func(ctx context.Context, a *app) (json.RawMessage, error) { return a.svc.Data.SelectedTools(ctx) },
		func(ctx context.Context, a *app, body json.RawMessage) (json.RawMessage, error) {
			return a.svc.Data.SaveSelectedTools(ctx, body)
		}))
	cmd.AddCommand(newDataDBTestCmd())
	cmd.AddCommand(newDataTablesCmd())
	cmd.AddCommand(newDataColumnsCmd())
	cmd.AddCommand(newDataToolOptionsCmd())
	cmd.AddCommand(newDataAPIsCmd())
	return cmd
}

// newDataSectionCmd 向导中“读取 / 保存”成对出现的步骤
func newDataSectionCmd(use, short string,
	get func(context.Context, *app) (json.RawMessage, error),
	save func(context.Context, *app, json.RawMessage) (json.RawMessage, error),
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "读取" + short,
		RunE: withApp(pageData, func(cmd *cobra.Command, args []string, a *app) error {
			res, err := get(cmd.Context(), a)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, res)
		}),
	})
	set := &cobra.Command{
		Use:   "set",
		Short: "保存" + short,
		RunE: withApp(pageData, func(cmd *cobra.Command, args []string, a *app) error {
			body, err := jsonBody(cmd)
			if err != nil {
				return err
			}
			res, err := save(cmd.Context(), a, body)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, res)
		}),
	}
	set.Flags().String("data", "", "JSON 内容，@file 表示从文件读取（必选）")
	cmd.AddCommand(set)
	return cmd
}

func newDataDBTestCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "db-test",
		Short: "测试向导数据库连接",
		RunE: withApp(pageData, func(cmd *cobra.Command, args []string, a *app) error {
			body, err := jsonBody(cmd)
			if err != nil {
				return err
			}
			res, err := a.svc.Data.TestDBConnection(cmd.Context(), body)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, res)
		}),
	}
	c.Flags().String("data", "", "连接参数 JSON，@file 表示从文件读取（必选）")
	return c
}

func newDataTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "列出向导数据库中的表",
		RunE: withApp(pageData, func(cmd *cobra.Command, args []string, a *app) error {
			res, err := a.svc.Data.Tables(cmd.Context())
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, res)
		}),
	}
}

func newDataColumnsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "columns",
		Short: "列出表的列",
		RunE: withApp(pageData, func(cmd *cobra.Command, args []string, a *app) error {
			query := map[string]any{}
			addOptionalString(cmd, query, "table")
			res, err := a.svc.Data.Columns(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, res)
		}),
	}
	c.Flags().String("table", "", "表名（必选）")
	_ = c.MarkFlagRequired("table")
	return c
}

func newDataToolOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tool-options",
		Short: "可选的系统工具",
		RunE: withApp(pageData, func(cmd *cobra.Command, args []string, a *app) error {
			res, err := a.svc.Data.ToolOptions(cmd.Context())
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, res)
		}),
	}
}

func newDataAPIsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apis",
		Short: "我的接口",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "列出我的接口",
		RunE: withApp(pageData, func(cmd *cobra.Command, args []string, a *app) error {
			res, err := a.svc.Data.ListAPIs(cmd.Context(), pageQuery(cmd))
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, res)
		}),
	}
	addPageFlags(list, 10)

	generate := &cobra.Command{
		Use:   "generate",
		Short: "根据描述生成接口",
		RunE: withApp(pageData, func(cmd *cobra.Command, args []string, a *app) error {
			body := map[string]any{}
			addOptionalString(cmd, body, "name")
			addOptionalString(cmd, body, "description")
			addOptionalString(cmd, body, "sql")
			addOptionalInt(cmd, body, "db-config-id", "dbConfigId")
			res, err := a.svc.Data.GenerateAPI(cmd.Context(), body)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, res)
		}),
	}
	generate.Flags().String("name", "", "接口名称（必选）")
	_ = generate.MarkFlagRequired("name")
	generate.Flags().String("description", "", "接口描述")
	generate.Flags().String("sql", "", "查询语句")
	generate.Flags().Int("db-config-id", 0, "数据库配置ID")

	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "启用或停用接口",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageData, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "api id")
			if err != nil {
				return err
			}
			enabled, _ := cmd.Flags().GetBool("enabled")
			if err := a.svc.Data.ToggleAPI(cmd.Context(), id, enabled); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "接口状态已更新")
		}),
	}
	toggle.Flags().Bool("enabled", true, "是否启用")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "删除接口",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageData, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "api id")
			if err != nil {
				return err
			}
			if err := a.svc.Data.DeleteAPI(cmd.Context(), id); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "接口已删除")
		}),
	}

	cmd.AddCommand(list, generate, toggle, del)
	return cmd
}
