package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/houzhh15/mt-console/pkg/api"
	"github.com/houzhh15/mt-console/pkg/router"
	"github.com/houzhh15/mt-console/pkg/session"
)

func newLoginCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "login",
		Short: "登录并保存凭证",
		RunE: withApp("", func(cmd *cobra.Command, args []string, a *app) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				password = os.Getenv("MT_PASSWORD")
			}
			if password == "" {
				return errors.New("password is required (--password or MT_PASSWORD)")
			}

			res, err := a.svc.Users.Login(cmd.Context(), api.LoginRequest{Username: username, Password: password})
			if err != nil {
				return err
			}
			// 登录后访问登录页会被守卫重定向到管理首页
			landing, err := a.router.Navigate(router.DefaultLoginPath)
			if err != nil {
				return err
			}
			if a.cfg.Output == "json" {
				return printOutput(cmd.OutOrStdout(), "json", map[string]any{
					"user":    res.User,
					"landing": landing.Path,
				})
			}
			name := username
			if res.User != nil && res.User.Nickname != "" {
				name = res.User.Nickname
			}
			return printOutput(cmd.OutOrStdout(), "text", fmt.Sprintf("登录成功: %s，跳转至 %s", name, landing.Path))
		}),
	}
	c.Flags().StringP("username", "u", "", "用户名（必选）")
	_ = c.MarkFlagRequired("username")
	c.Flags().StringP("password", "p", "", "密码 (env: MT_PASSWORD)")
	return c
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "清除本地登录状态",
		RunE: withApp("", func(cmd *cobra.Command, args []string, a *app) error {
			if err := a.svc.Users.Logout(); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "已退出登录")
		}),
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "显示当前登录用户与凭证信息",
		RunE: withApp(router.DefaultLandingPath, func(cmd *cobra.Command, args []string, a *app) error {
			user, err := a.svc.Users.CurrentUser()
			if err != nil {
				return err
			}
			out := map[string]any{"user": user}

			claims, err := a.svc.Session.Claims()
			switch {
			case err == nil:
				out["subject"] = claims.Subject
				if !claims.ExpiresAt.IsZero() {
					out["expiresAt"] = claims.ExpiresAt.Format(time.RFC3339)
					out["expired"] = claims.Expired(time.Now())
				}
			case errors.Is(err, session.ErrNoToken), errors.Is(err, session.ErrOpaqueToken):
				// Cookie 会话或非 JWT 凭证，只展示用户信息
			default:
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, out)
		}),
	}
}

func newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <path>",
		Short: "按当前登录状态解析控制台页面路径",
		Args:  cobra.ExactArgs(1),
		RunE: withApp("", func(cmd *cobra.Command, args []string, a *app) error {
			res, err := a.router.Navigate(args[0])
			if err != nil {
				return err
			}
			if a.cfg.Output == "json" {
				return printOutput(cmd.OutOrStdout(), "json", res)
			}
			line := fmt.Sprintf("%s (%s)", res.Path, res.Route.Name)
			if len(res.Hops) > 1 {
				line += "  via " + strings.Join(res.Hops, " -> ")
			}
			return printOutput(cmd.OutOrStdout(), "text", line)
		}),
	}
}
