package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/houzhh15/mt-console/pkg/api"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "外部数据库配置",
	}
	cmd.AddCommand(newDBListCmd())
	cmd.AddCommand(newDBEnabledCmd())
	cmd.AddCommand(newDBGetCmd())
	cmd.AddCommand(newDBSaveCmd())
	cmd.AddCommand(newDBTestCmd())
	cmd.AddCommand(newDBVerifyCmd())
	cmd.AddCommand(newDBDeleteCmd())
	cmd.AddCommand(newDBStatusCmd())
	cmd.AddCommand(newDBReEncryptCmd())
	return cmd
}

func newDBListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "分页列出数据库配置",
		RunE: withApp(pageDatabases, func(cmd *cobra.Command, args []string, a *app) error {
			page, err := a.svc.DBConfigs.List(cmd.Context(), pageQuery(cmd))
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, page)
		}),
	}
	addPageFlags(c, 10)
	return c
}

func newDBEnabledCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enabled",
		Short: "列出已启用的数据库配置",
		RunE: withApp(pageDatabases, func(cmd *cobra.Command, args []string, a *app) error {
			list, err := a.svc.DBConfigs.ListEnabled(cmd.Context())
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, list)
		}),
	}
}

func newDBGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "获取数据库配置",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageDatabases, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "db config id")
			if err != nil {
				return err
			}
			cfg, err := a.svc.DBConfigs.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, cfg)
		}),
	}
}

func dbConfigFlags(c *cobra.Command) {
	c.Flags().Int64("id", 0, "配置ID（更新时使用）")
	c.Flags().String("name", "", "配置名称")
	c.Flags().String("db-type", "mysql", "数据库类型")
	c.Flags().String("host", "", "主机")
	c.Flags().Int("port", 3306, "端口")
	c.Flags().String("database", "", "库名")
	c.Flags().String("db-user", "", "数据库用户名")
	c.Flags().String("db-password", "", "数据库密码（明文提交，后端加密存储）")
}

func dbConfigFromFlags(cmd *cobra.Command) api.DBConfig {
	str := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	id, _ := cmd.Flags().GetInt64("id")
	port, _ := cmd.Flags().GetInt("port")
	return api.DBConfig{
		ID:           id,
		Name:         str("name"),
		DBType:       str("db-type"),
		Host:         str("host"),
		Port:         port,
		DatabaseName: str("database"),
		Username:     str("db-user"),
		RawPassword:  str("db-password"),
	}
}

func newDBSaveCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "save",
		Short: "新增或更新数据库配置",
		RunE: withApp(pageDatabases, func(cmd *cobra.Command, args []string, a *app) error {
			saved, err := a.svc.DBConfigs.Save(cmd.Context(), dbConfigFromFlags(cmd))
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, saved)
		}),
	}
	dbConfigFlags(c)
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("host")
	return c
}

func newDBTestCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "test",
		Short: "测试未保存配置的连接",
		RunE: withApp(pageDatabases, func(cmd *cobra.Command, args []string, a *app) error {
			res, err := a.svc.DBConfigs.Test(cmd.Context(), dbConfigFromFlags(cmd))
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, res)
		}),
	}
	dbConfigFlags(c)
	_ = c.MarkFlagRequired("host")
	return c
}

func newDBVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <id>",
		Short: "验证已保存配置的连接",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageDatabases, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "db config id")
			if err != nil {
				return err
			}
			res, err := a.svc.DBConfigs.Verify(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, res)
		}),
	}
}

func newDBDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "删除数据库配置",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageDatabases, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "db config id")
			if err != nil {
				return err
			}
			if err := a.svc.DBConfigs.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "数据库配置已删除")
		}),
	}
}

func newDBStatusCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "status <id>",
		Short: "启用或停用数据库配置",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageDatabases, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "db config id")
			if err != nil {
				return err
			}
			status, _ := cmd.Flags().GetInt("status")
			if err := a.svc.DBConfigs.UpdateStatus(cmd.Context(), id, status); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "数据库配置状态已更新")
		}),
	}
	c.Flags().Int("status", 1, "状态: 1 启用 / 0 停用")
	return c
}

func newDBReEncryptCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "re-encrypt <id>",
		Short: "使用新密码重新加密",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageDatabases, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "db config id")
			if err != nil {
				return err
			}
			password, _ := cmd.Flags().GetString("db-password")
			if err := a.svc.DBConfigs.ReEncryptPassword(cmd.Context(), id, password); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "密码已重新加密")
		}),
	}
	c.Flags().String("db-password", "", "新的数据库密码（必选）")
	_ = c.MarkFlagRequired("db-password")
	return c
}

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "表结构同步与访问控制",
	}
	cmd.AddCommand(newSchemaSyncCmd())
	cmd.AddCommand(newSchemaStatusCmd())
	cmd.AddCommand(newSchemaTablesCmd())
	cmd.AddCommand(newSchemaColumnsCmd())
	cmd.AddCommand(newSchemaCommentCmd())
	cmd.AddCommand(newSchemaAccessCmd())
	return cmd
}

func newSchemaSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync <db-config-id>",
		Short: "触发表结构同步",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageDatabases, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "db config id")
			if err != nil {
				return err
			}
			res, err := a.svc.Schema.StartSync(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, res)
		}),
	}
}

func newSchemaStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <db-config-id>",
		Short: "查询最新同步状态",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageDatabases, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "db config id")
			if err != nil {
				return err
			}
			st, err := a.svc.Schema.Status(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, st)
		}),
	}
}

func newSchemaTablesCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "tables <db-config-id>",
		Short: "列出表清单",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageDatabases, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "db config id")
			if err != nil {
				return err
			}
			var allowed *int
			if cmd.Flags().Changed("allowed") {
				v, _ := cmd.Flags().GetInt("allowed")
				if v != 0 && v != 1 {
					return fmt.Errorf("--allowed must be 0 or 1")
				}
				allowed = &v
			}
			tables, err := a.svc.Schema.ListTables(cmd.Context(), id, allowed)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, tables)
		}),
	}
	c.Flags().Int("allowed", 0, "仅列出允许(1)或禁止(0)访问的表")
	return c
}

func newSchemaColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns <db-config-id> <table-id>",
		Short: "列出表的列",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(pageDatabases, func(cmd *cobra.Command, args []string, a *app) error {
			dbID, err := parseID(args[0], "db config id")
			if err != nil {
				return err
			}
			tableID, err := parseID(args[1], "table id")
			if err != nil {
				return err
			}
			cols, err := a.svc.Schema.ListColumns(cmd.Context(), dbID, tableID)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, cols)
		}),
	}
}

func newSchemaCommentCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "comment <table-id>",
		Short: "更新表注释",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageDatabases, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "table id")
			if err != nil {
				return err
			}
			comment, _ := cmd.Flags().GetString("comment")
			if err := a.svc.Schema.UpdateTableComment(cmd.Context(), id, comment); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "表注释已更新")
		}),
	}
	c.Flags().String("comment", "", "表注释（必选）")
	_ = c.MarkFlagRequired("comment")
	return c
}

func newSchemaAccessCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "access <table-id>",
		Short: "设置表是否允许问答访问",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageDatabases, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "table id")
			if err != nil {
				return err
			}
			enabled, _ := cmd.Flags().GetBool("enabled")
			if err := a.svc.Schema.UpdateTableAccess(cmd.Context(), id, enabled); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "表访问权限已更新")
		}),
	}
	c.Flags().Bool("enabled", true, "是否允许访问")
	return c
}
