package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/houzhh15/mt-console/pkg/api"
)

func newAskCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ask <question>",
		Short: "数据问答（耗时较长，超时见 MT_ASK_TIMEOUT）",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageChat, func(cmd *cobra.Command, args []string, a *app) error {
			req := api.AskRequest{Question: args[0]}
			req.SessionID, _ = cmd.Flags().GetInt64("session-id")
			req.DBConfigID, _ = cmd.Flags().GetInt64("db-config-id")
			if t, _ := cmd.Flags().GetString("table"); t != "" {
				// 表 ID 或表名
				if id, err := strconv.ParseInt(t, 10, 64); err == nil {
					req.TableID = id
				} else {
					req.TableID = t
				}
			}

			res := a.svc.Question.Ask(cmd.Context(), req)
			if !res.Success {
				return errors.New(res.Error)
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, res.Data)
		}),
	}
	c.Flags().Int64("session-id", 0, "会话ID")
	c.Flags().Int64("db-config-id", 0, "数据库配置ID")
	c.Flags().String("table", "", "表ID或表名（可选）")
	return c
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "数据问答服务健康检查",
		RunE: withApp("", func(cmd *cobra.Command, args []string, a *app) error {
			res := a.svc.Question.Health(cmd.Context())
			if res == nil {
				return errors.New("健康检查失败")
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, res)
		}),
	}
}

func newProbeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "probe [path...]",
		Short: "排查后端连通性与接口路径",
		RunE: withApp("", func(cmd *cobra.Command, args []string, a *app) error {
			conn := a.svc.Diagnostics.TestBackendConnection(cmd.Context())
			paths := a.svc.Diagnostics.TestAPIPaths(cmd.Context(), args)

			if a.cfg.Output == "json" {
				if err := printOutput(cmd.OutOrStdout(), "json", map[string]any{"backend": conn, "paths": paths}); err != nil {
					return err
				}
			} else {
				w := cmd.OutOrStdout()
				fmt.Fprintln(w, conn.Message)
				for _, p := range paths {
					status := "ERROR"
					if p.Status > 0 {
						status = strconv.Itoa(p.Status)
					}
					mark := "✔"
					if !p.OK {
						mark = "✖"
					}
					fmt.Fprintf(w, "%s %-24s %s\n", mark, p.Path, status)
				}
			}
			if !conn.Success {
				return errors.New("backend unreachable")
			}
			return nil
		}),
	}
	return c
}
