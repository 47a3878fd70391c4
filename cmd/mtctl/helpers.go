package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/houzhh15/mt-console/pkg/api"
)

// parseID 解析位置参数中的数字 ID
func parseID(s, name string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, s)
	}
	return id, nil
}

// addPageFlags 为列表命令添加分页标志
func addPageFlags(c *cobra.Command, size int) {
	c.Flags().Int("current", 1, "页码")
	c.Flags().Int("size", size, "每页数量")
}

func pageQuery(cmd *cobra.Command) api.PageQuery {
	current, _ := cmd.Flags().GetInt("current")
	size, _ := cmd.Flags().GetInt("size")
	return api.PageQuery{Current: current, Size: size}
}

// addOptionalString 如果命令行标志有值则添加到 body map
func addOptionalString(cmd *cobra.Command, body map[string]any, flag string, jsonKeys ...string) {
	v, _ := cmd.Flags().GetString(flag)
	if v == "" {
		return
	}
	key := flag
	if len(jsonKeys) > 0 {
		key = jsonKeys[0]
	}
	body[key] = v
}

// addOptionalInt 如果命令行标志被设置则添加到 body map
func addOptionalInt(cmd *cobra.Command, body map[string]any, flag string, jsonKeys ...string) {
	if !cmd.Flags().Changed(flag) {
		return
	}
	v, _ := cmd.Flags().GetInt(flag)
	key := flag
	if len(jsonKeys) > 0 {
		key = jsonKeys[0]
	}
	body[key] = v
}

// jsonBody 读取 --data 标志中的 JSON；以 @ 开头时从文件读取
func jsonBody(cmd *cobra.Command) (json.RawMessage, error) {
	v, _ := cmd.Flags().GetString("data")
	if v == "" {
		return nil, fmt.Errorf("--data is required")
	}
	data := []byte(v)
	if v[0] == '@' {
		b, err := os.ReadFile(v[1:])
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", v[1:], err)
		}
		data = b
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("--data is not valid JSON")
	}
	return json.RawMessage(data), nil
}

// done 写操作成功后的提示
func done(cmd *cobra.Command, format, msg string) error {
	if format == "json" {
		return printOutput(cmd.OutOrStdout(), format, map[string]any{"success": true, "message": msg})
	}
	return printOutput(cmd.OutOrStdout(), format, msg)
}
