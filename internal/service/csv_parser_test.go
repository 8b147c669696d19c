package service

import (
	"testing"

	"github.com/greymaverick/PKP-app/internal/model"
)

// ── parseCSVRows 状态机测试 ──

func TestParseCSVRows_QuotedComma(t *testing.T) {
	rows := parseCSVRows("a,\"b,c\",d\n")
	if len(rows) != 1 {
		t.Fatalf("期望1行，实际=%d", len(rows))
	}
	if len(rows[0]) != 3 {
		t.Fatalf("期望3列，实际=%d", len(rows[0]))
	}
	if rows[0][1] != "b,c" {
		t.Errorf("期望引号内逗号保留，实际=%q", rows[0][1])
	}
}

func TestParseCSVRows_EscapedQuote(t *testing.T) {
	rows := parseCSVRows("\"kata \"\"penting\"\"\",x\n")
	if len(rows) != 1 || len(rows[0]) != 2 {
		t.Fatalf("期望1行2列，实际行=%d", len(rows))
	}
	if rows[0][0] != `kata "penting"` {
		t.Errorf("期望转义引号输出单个引号，实际=%q", rows[0][0])
	}
}

func TestParseCSVRows_QuotedNewline(t *testing.T) {
	rows := parseCSVRows("a,\"baris1\nbaris2\",b\nc,d,e\n")
	if len(rows) != 2 {
		t.Fatalf("期望2行，实际=%d", len(rows))
	}
	if rows[0][1] != "baris1\nbaris2" {
		t.Errorf("期望引号内换行保留，实际=%q", rows[0][1])
	}
}

func TestParseCSVRows_CRLFAndCR(t *testing.T) {
	rows := parseCSVRows("a,b\r\nc,d\re,f")
	if len(rows) != 3 {
		t.Fatalf("期望3行（\\r\\n 与 \\r 均为行分隔），实际=%d", len(rows))
	}
	if rows[1][0] != "c" || rows[2][0] != "e" {
		t.Errorf("换行归一化错误: %v", rows)
	}
}

func TestParseCSVRows_NoTrailingNewline(t *testing.T) {
	rows := parseCSVRows("a,b\nc,d")
	if len(rows) != 2 {
		t.Fatalf("文本末尾无换行时应冲刷最后一行，实际行数=%d", len(rows))
	}
	if rows[1][1] != "d" {
		t.Errorf("期望最后单元格=d，实际=%q", rows[1][1])
	}
}

func TestParseCSVRows_EmptyRowsDropped(t *testing.T) {
	rows := parseCSVRows("a,b\n\n,,\nc,d\n")
	if len(rows) != 2 {
		t.Fatalf("全空行应被丢弃，期望2行，实际=%d", len(rows))
	}
}

func TestParseCSVRows_CellsTrimmed(t *testing.T) {
	rows := parseCSVRows("  a  , b ,c\n")
	if rows[0][0] != "a" || rows[0][1] != "b" {
		t.Errorf("单元格应去除首尾空白: %v", rows[0])
	}
}

func TestParseCSVRows_UnclosedQuote(t *testing.T) {
	rows := parseCSVRows("a,\"belum ditutup\n")
	if len(rows) != 1 {
		t.Fatalf("未闭合引号应吞到末尾并作为一行，实际=%d", len(rows))
	}
	if rows[0][1] != "belum ditutup" {
		t.Errorf("期望未闭合引号内容保留，实际=%q", rows[0][1])
	}
}

// ── ParseProcedureCSV 测试 ──

func TestParseProcedureCSV_ColumnMapping(t *testing.T) {
	csv := "Jenis,K1,A1,K2,A2,K3,A3,Kode,Prosedur,Level,Header\n" +
		"LRA,1.1,Pendapatan,1.1.1,Pajak,1.1.1.1,PBB,K-01,\"Periksa bukti, lalu rekap\",3,0\n"

	procedures := ParseProcedureCSV(csv)
	if len(procedures) != 1 {
		t.Fatalf("期望1条程序，实际=%d", len(procedures))
	}

	p := procedures[0]
	if p.ReportType != "LRA" {
		t.Errorf("期望ReportType=LRA，实际=%s", p.ReportType)
	}
	if p.Account1Code != "1.1" || p.Account1Name != "Pendapatan" {
		t.Errorf("科目1映射错误: %s %s", p.Account1Code, p.Account1Name)
	}
	if p.Account3Name != "PBB" {
		t.Errorf("期望Account3Name=PBB，实际=%s", p.Account3Name)
	}
	if p.Code != "K-01" {
		t.Errorf("期望Code=K-01，实际=%s", p.Code)
	}
	if p.Name != "Periksa bukti, lalu rekap" {
		t.Errorf("程序名称中的逗号应保留，实际=%q", p.Name)
	}
	if p.Level != "3" || p.IsHeader != "0" {
		t.Errorf("Level/IsHeader 映射错误: %s %s", p.Level, p.IsHeader)
	}
}

func TestParseProcedureCSV_Defaults(t *testing.T) {
	csv := "h1,h2,h3,h4,h5,h6,h7,h8,h9,h10,h11\nLRA,,,,,,,,,,\n"

	procedures := ParseProcedureCSV(csv)
	if len(procedures) != 1 {
		t.Fatalf("期望1条程序，实际=%d", len(procedures))
	}

	p := procedures[0]
	if p.Code != "?" {
		t.Errorf("缺失编码应默认为?，实际=%s", p.Code)
	}
	if p.Name != "Untitled Procedure" {
		t.Errorf("缺失名称应用占位名，实际=%s", p.Name)
	}
	if p.IsHeader != "0" {
		t.Errorf("缺失Header应默认0，实际=%s", p.IsHeader)
	}
	if !p.IsActive {
		t.Error("导入的程序应默认活跃")
	}
	if p.Stage != model.StageTerinci {
		t.Errorf("导入的程序应默认Terinci阶段，实际=%s", p.Stage)
	}
	if p.ProcedureID == "" {
		t.Error("导入的程序应分配新id")
	}
}

func TestParseProcedureCSV_HeaderOnly(t *testing.T) {
	procedures := ParseProcedureCSV("h1,h2,h3\n")
	if len(procedures) != 0 {
		t.Errorf("仅有表头时应返回空，实际=%d", len(procedures))
	}
}

func TestParseProcedureCSV_Empty(t *testing.T) {
	if got := ParseProcedureCSV(""); len(got) != 0 {
		t.Errorf("空文本应返回空，实际=%d", len(got))
	}
}

func TestParseProcedureCSV_ShortRows(t *testing.T) {
	csv := "h1,h2,h3,h4,h5,h6,h7,h8,h9,h10,h11\nLRA,1.1\n"

	procedures := ParseProcedureCSV(csv)
	if len(procedures) != 1 {
		t.Fatalf("短行也应产出程序，实际=%d", len(procedures))
	}
	if procedures[0].Account1Name != "" {
		t.Errorf("短行缺失列应为空串，实际=%q", procedures[0].Account1Name)
	}
}
