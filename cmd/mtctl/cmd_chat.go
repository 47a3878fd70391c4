package main

import (
	"github.com/spf13/cobra"

	"github.com/houzhh15/mt-console/pkg/api"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "问答会话管理",
	}
	cmd.AddCommand(newChatListCmd())
	cmd.AddCommand(newChatCreateCmd())
	cmd.AddCommand(newChatMessagesCmd())
	cmd.AddCommand(newChatToolsCmd())
	cmd.AddCommand(newChatTitleCmd())
	cmd.AddCommand(newChatDeleteCmd())
	return cmd
}

func newChatListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "分页列出会话",
		RunE: withApp(pageChat, func(cmd *cobra.Command, args []string, a *app) error {
			page, err := a.svc.Chat.ListSessions(cmd.Context(), pageQuery(cmd))
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, page)
		}),
	}
	addPageFlags(c, 20)
	return c
}

func newChatCreateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "create",
		Short: "新建会话",
		RunE: withApp(pageChat, func(cmd *cobra.Command, args []string, a *app) error {
			title, _ := cmd.Flags().GetString("title")
			dbID, _ := cmd.Flags().GetInt64("db-config-id")
			s, err := a.svc.Chat.CreateSession(cmd.Context(), api.CreateSessionRequest{Title: title, DBConfigID: dbID})
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, s)
		}),
	}
	c.Flags().String("title", "", "会话标题")
	c.Flags().Int64("db-config-id", 0, "关联的数据库配置ID")
	return c
}

func newChatMessagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "messages <session-id>",
		Short: "查看会话消息",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageChat, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}
			msgs, err := a.svc.Chat.Messages(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, msgs)
		}),
	}
}

func newChatToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "当前用户可用的工具",
		RunE: withApp(pageChat, func(cmd *cobra.Command, args []string, a *app) error {
			tools, err := a.svc.Chat.UserTools(cmd.Context())
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, tools)
		}),
	}
}

func newChatTitleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "title <session-id> <title>",
		Short: "修改会话标题",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(pageChat, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}
			if err := a.svc.Chat.UpdateTitle(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "会话标题已更新")
		}),
	}
}

func newChatDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "删除会话",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageChat, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}
			if err := a.svc.Chat.DeleteSession(cmd.Context(), id); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "会话已删除")
		}),
	}
}
