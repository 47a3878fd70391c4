package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// printOutput 按指定格式输出命令结果
// json 模式缩进输出；text 模式下字符串原样输出，其余按单行 JSON 输出
func printOutput(w io.Writer, format string, v any) error {
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}

	var data []byte
	if raw, ok := v.(json.RawMessage); ok {
		if len(raw) == 0 {
			raw = json.RawMessage("null")
		}
		data = raw
	} else {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		data = b
	}

	var out bytes.Buffer
	if format == "json" {
		if err := json.Indent(&out, data, "", "  "); err != nil {
			// 非 JSON 数据直接输出
			_, err = fmt.Fprintln(w, string(data))
			return err
		}
	} else if err := json.Compact(&out, data); err != nil {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	_, err := fmt.Fprintln(w, out.String())
	return err
}
