package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/houzhh15/mt-console/pkg/api"
)

func newKnowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "知识库、文件、文本块与关联",
	}
	cmd.AddCommand(newKnowledgeListCmd())
	cmd.AddCommand(newKnowledgeCreateCmd())
	cmd.AddCommand(newKnowledgeGetCmd())
	cmd.AddCommand(newKnowledgeUpdateCmd())
	cmd.AddCommand(newKnowledgeDeleteCmd())
	cmd.AddCommand(newKnowledgeFilesCmd())
	cmd.AddCommand(newKnowledgeUploadCmd())
	cmd.AddCommand(newKnowledgeDeleteFileCmd())
	cmd.AddCommand(newKnowledgeBlocksCmd())
	cmd.AddCommand(newKnowledgeUpdateBlockCmd())
	cmd.AddCommand(newKnowledgeRelationsCmd())
	cmd.AddCommand(newKnowledgeUpdateRelationCmd())
	return cmd
}

// knowledgePage 知识库子页面路径，与控制台路由一致
func knowledgePage(knowledgeID int64, sub string) string {
	return fmt.Sprintf("%s/%d/%s", pageKnowledge, knowledgeID, sub)
}

// parseIDs 依次解析多个位置参数
func parseIDs(args []string, names ...string) ([]int64, error) {
	ids := make([]int64, len(names))
	for i, name := range names {
		id, err := parseID(args[i], name)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func newKnowledgeListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "分页列出知识库",
		RunE: withApp(pageKnowledge, func(cmd *cobra.Command, args []string, a *app) error {
			page, err := a.svc.Knowledge.List(cmd.Context(), pageQuery(cmd))
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, page)
		}),
	}
	addPageFlags(c, 10)
	return c
}

func newKnowledgeCreateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "create",
		Short: "创建知识库",
		RunE: withApp(pageKnowledge, func(cmd *cobra.Command, args []string, a *app) error {
			name, _ := cmd.Flags().GetString("name")
			desc, _ := cmd.Flags().GetString("description")
			kb, err := a.svc.Knowledge.Create(cmd.Context(), api.Knowledge{Name: name, Description: desc})
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, kb)
		}),
	}
	c.Flags().String("name", "", "知识库名称（必选）")
	_ = c.MarkFlagRequired("name")
	c.Flags().String("description", "", "描述")
	return c
}

func newKnowledgeGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <knowledge-id>",
		Short: "获取知识库详情",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageKnowledge, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "knowledge id")
			if err != nil {
				return err
			}
			kb, err := a.svc.Knowledge.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), a.cfg.Output, kb)
		}),
	}
}

func newKnowledgeUpdateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "update <knowledge-id>",
		Short: "更新知识库",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageKnowledge, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "knowledge id")
			if err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("name")
			desc, _ := cmd.Flags().GetString("description")
			if err := a.svc.Knowledge.Update(cmd.Context(), api.Knowledge{ID: id, Name: name, Description: desc}); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "知识库已更新")
		}),
	}
	c.Flags().String("name", "", "知识库名称")
	c.Flags().String("description", "", "描述")
	return c
}

func newKnowledgeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <knowledge-id>",
		Short: "删除知识库",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(pageKnowledge, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "knowledge id")
			if err != nil {
				return err
			}
			if err := a.svc.Knowledge.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return done(cmd, a.cfg.Output, "知识库已删除")
		}),
	}
}

func newKnowledgeFilesCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "files <knowledge-id>",
		Short: "列出知识库文件",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "knowledge id")
			if err != nil {
				return err
			}
			return withApp(knowledgePage(id, "files"), func(cmd *cobra.Command, args []string, a *app) error {
				page, err := a.svc.Knowledge.Files(cmd.Context(), id, pageQuery(cmd))
				if err != nil {
					return err
				}
				return printOutput(cmd.OutOrStdout(), a.cfg.Output, page)
			})(cmd, args)
		},
	}
	addPageFlags(c, 10)
	return c
}

func newKnowledgeUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <knowledge-id> <file>",
		Short: "上传文件到知识库",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "knowledge id")
			if err != nil {
				return err
			}
			return withApp(knowledgePage(id, "files"), func(cmd *cobra.Command, args []string, a *app) error {
				f, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer f.Close()
				file, err := a.svc.Knowledge.UploadFile(cmd.Context(), id, filepath.Base(args[1]), f)
				if err != nil {
					return err
				}
				return printOutput(cmd.OutOrStdout(), a.cfg.Output, file)
			})(cmd, args)
		},
	}
}

func newKnowledgeDeleteFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-file <knowledge-id> <file-id>",
		Short: "删除知识库文件",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args, "knowledge id", "file id")
			if err != nil {
				return err
			}
			return withApp(knowledgePage(ids[0], "files"), func(cmd *cobra.Command, args []string, a *app) error {
				if err := a.svc.Knowledge.DeleteFile(cmd.Context(), ids[0], ids[1]); err != nil {
					return err
				}
				return done(cmd, a.cfg.Output, "文件已删除")
			})(cmd, args)
		},
	}
}

func newKnowledgeBlocksCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "blocks <knowledge-id> <file-id>",
		Short: "列出文件文本块",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args, "knowledge id", "file id")
			if err != nil {
				return err
			}
			page := knowledgePage(ids[0], fmt.Sprintf("files/%d/blocks", ids[1]))
			return withApp(page, func(cmd *cobra.Command, args []string, a *app) error {
				blocks, err := a.svc.Knowledge.Blocks(cmd.Context(), ids[0], ids[1], pageQuery(cmd))
				if err != nil {
					return err
				}
				return printOutput(cmd.OutOrStdout(), a.cfg.Output, blocks)
			})(cmd, args)
		},
	}
	addPageFlags(c, 10)
	return c
}

func newKnowledgeUpdateBlockCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "update-block <knowledge-id> <file-id> <block-id>",
		Short: "更新文本块内容",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args, "knowledge id", "file id", "block id")
			if err != nil {
				return err
			}
			page := knowledgePage(ids[0], fmt.Sprintf("files/%d/blocks", ids[1]))
			return withApp(page, func(cmd *cobra.Command, args []string, a *app) error {
				content, _ := cmd.Flags().GetString("content")
				if err := a.svc.Knowledge.UpdateBlock(cmd.Context(), ids[0], ids[1], ids[2], api.TextBlock{Content: content}); err != nil {
					return err
				}
				return done(cmd, a.cfg.Output, "文本块已更新")
			})(cmd, args)
		},
	}
	c.Flags().String("content", "", "文本块内容（必选）")
	_ = c.MarkFlagRequired("content")
	return c
}

func newKnowledgeRelationsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "relations <knowledge-id>",
		Short: "列出知识关联",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "knowledge id")
			if err != nil {
				return err
			}
			return withApp(knowledgePage(id, "relations"), func(cmd *cobra.Command, args []string, a *app) error {
				page, err := a.svc.Knowledge.Relations(cmd.Context(), id, pageQuery(cmd))
				if err != nil {
					return err
				}
				return printOutput(cmd.OutOrStdout(), a.cfg.Output, page)
			})(cmd, args)
		},
	}
	addPageFlags(c, 10)
	return c
}

func newKnowledgeUpdateRelationCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "update-relation <knowledge-id> <relation-id>",
		Short: "更新知识关联",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args, "knowledge id", "relation id")
			if err != nil {
				return err
			}
			return withApp(knowledgePage(ids[0], "relations"), func(cmd *cobra.Command, args []string, a *app) error {
				rel := api.Relation{}
				rel.Question, _ = cmd.Flags().GetString("question")
				rel.BlockID, _ = cmd.Flags().GetInt64("block-id")
				rel.Status, _ = cmd.Flags().GetInt("status")
				if err := a.svc.Knowledge.UpdateRelation(cmd.Context(), ids[0], ids[1], rel); err != nil {
					return err
				}
				return done(cmd, a.cfg.Output, "知识关联已更新")
			})(cmd, args)
		},
	}
	c.Flags().String("question", "", "关联问题")
	c.Flags().Int64("block-id", 0, "关联的文本块ID")
	c.Flags().Int("status", 0, "关联状态")
	return c
}
