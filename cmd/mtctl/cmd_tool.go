package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/houzhh15/mt-console/pkg/api"
)

func newToolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tool",
		Short: "工具管理",
	}
	cmd.AddCommand(newToolListCmd())
	cmd.AddCommand(newToolGetCmd())
	cmd.AddCommand(newToolAddCmd())
	cmd.AddCommand(newToolUpdateCmd())
	cmd.AddCommand(newToolDeleteCmd())
	return cmd
}

func newToolListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "分页列出工具",
		RunE: withApp(pageExtensions, func(cmd *cobra.Command, args []string, a *app) error {
			page, err := a.svc.Tools.List(cmd.Context(), pageQuery(cmd))
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, page)
		}),
	}
	addPageFlags(c, 10)
	return c
}

func newToolGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "获取工具详情",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageExtensions, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "tool id")
			if err != nil {
				return err
			}
			tool, err := a.svc.Tools.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, tool)
		}),
	}
}

func toolFlags(c *cobra.Command) {
	c.Flags().String("name", "", "工具名称")
	c.Flags().String("description", "", "描述")
	c.Flags().Bool("enabled", true, "是否启用")
	c.Flags().String("params", "", "工具参数 JSON")
}

func toolFromFlags(cmd *cobra.Command) (api.Tool, error) {
	t := api.Tool{}
	t.Name, _ = cmd.Flags().GetString("name")
	t.Description, _ = cmd.Flags().GetString("description")
	t.Enabled, _ = cmd.Flags().GetBool("enabled")
	if p, _ := cmd.Flags().GetString("params"); p != "" {
		if !json.Valid([]byte(p)) {
			return t, fmt.Errorf("--params is not valid JSON")
		}
		t.Params = json.RawMessage(p)
	}
	return t, nil
}

func newToolAddCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "add",
		Short: "新增工具",
		RunE: withApp(pageExtensions, func(cmd *cobra.Command, args []string, a *app) error {
			tool, err := toolFromFlags(cmd)
			if err != nil {
				return err
			}
			if err := a.svc.Tools.Add(cmd.Context(), tool); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "工具已添加")
		}),
	}
	toolFlags(c)
	_ = c.MarkFlagRequired("name")
	return c
}

func newToolUpdateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "update <id>",
		Short: "更新工具",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageExtensions, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "tool id")
			if err != nil {
				return err
			}
			tool, err := toolFromFlags(cmd)
			if err != nil {
				return err
			}
			tool.ID = id
			if err := a.svc.Tools.Update(cmd.Context(), tool); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "工具已更新")
		}),
	}
	toolFlags(c)
	return c
}

func newToolDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "删除工具",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageExtensions, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "tool id")
			if err != nil {
				return err
			}
			if err := a.svc.Tools.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "工具已删除")
		}),
	}
}
