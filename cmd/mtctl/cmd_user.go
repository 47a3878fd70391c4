package main

import (
	"github.com/spf13/cobra"

	"github.com/houzhh15/mt-console/pkg/api"
)

// 管理命令对应的控制台页面，用于登录守卫判定
const (
	pageAdmin      = "/admin"
	pageAPI        = "/admin/api"
	pageData       = "/admin/data"
	pageDatabases  = "/admin/data/databases"
	pageKnowledge  = "/admin/knowledge"
	pageChat       = "/admin/chat-interface"
	pageExtensions = "/admin/extension"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "用户管理",
	}
	cmd.AddCommand(newUserListCmd())
	cmd.AddCommand(newUserGetCmd())
	cmd.AddCommand(newUserAddCmd())
	cmd.AddCommand(newUserUpdateCmd())
	cmd.AddCommand(newUserDeleteCmd())
	cmd.AddCommand(newUserStatusCmd())
	return cmd
}

func newUserListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "分页列出用户",
		RunE: withApp(pageAdmin, func(cmd *cobra.Command, args []string, a *app) error {
			q := pageQuery(cmd)
			if v, _ := cmd.Flags().GetString("username"); v != "" {
				q.Extra = map[string]any{"username": v}
			}
			page, err := a.svc.Users.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, page)
		}),
	}
	addPageFlags(c, 10)
	c.Flags().String("username", "", "按用户名过滤")
	return c
}

func newUserGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "获取用户详情",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageAdmin, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "user id")
			if err != nil {
				return err
			}
			user, err := a.svc.Users.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, user)
		}),
	}
}

func userFormFlags(c *cobra.Command) {
	c.Flags().String("username", "", "用户名")
	c.Flags().String("password", "", "密码")
	c.Flags().String("nickname", "", "昵称")
	c.Flags().String("email", "", "邮箱")
	c.Flags().String("phone", "", "手机号")
	c.Flags().String("role", "", "角色")
}

func userForm(cmd *cobra.Command) api.UserForm {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return api.UserForm{
		Username: get("username"),
		Password: get("password"),
		Nickname: get("nickname"),
		Email:    get("email"),
		Phone:    get("phone"),
		Role:     get("role"),
	}
}

func newUserAddCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "add",
		Short: "新增用户",
		RunE: withApp(pageAdmin, func(cmd *cobra.Command, args []string, a *app) error {
			if err := a.svc.Users.Add(cmd.Context(), userForm(cmd)); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "用户已创建")
		}),
	}
	userFormFlags(c)
	_ = c.MarkFlagRequired("username")
	_ = c.MarkFlagRequired("password")
	return c
}

func newUserUpdateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "update <id>",
		Short: "更新用户",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageAdmin, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "user id")
			if err != nil {
				return err
			}
			form := userForm(cmd)
			form.ID = id
			if err := a.svc.Users.Update(cmd.Context(), form); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "用户已更新")
		}),
	}
	userFormFlags(c)
	return c
}

func newUserDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "删除用户",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageAdmin, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "user id")
			if err != nil {
				return err
			}
			if err := a.svc.Users.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "用户已删除")
		}),
	}
}

func newUserStatusCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "status <id>",
		Short: "启用或禁用用户",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageAdmin, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "user id")
			if err != nil {
				return err
			}
			status, _ := cmd.Flags().GetInt("status")
			if err := a.svc.Users.UpdateStatus(cmd.Context(), id, status); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "用户状态已更新")
		}),
	}
	c.Flags().Int("status", 1, "状态: 1 启用 / 0 禁用")
	return c
}
