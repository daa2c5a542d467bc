package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/John-Robertt/extname/internal/domain"
	"github.com/John-Robertt/extname/internal/export"
)

// emitBatch 输出批量结果：
// - 终端：带表头的表格 + 汇总行
// - 非终端（管道/重定向）：每行 "ID: Name"，便于脚本处理
func emitBatch(w io.Writer, b *domain.Batch, tty bool) {
	if !tty {
		for _, e := range b.Entries() {
			fmt.Fprintf(w, "%s: %s\n", e.ID, e.Name)
		}
		return
	}

	found, missing := b.Summary()
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{export.ColumnID, export.ColumnName, export.ColumnBrowser})
	for _, e := range b.Entries() {
		t.AppendRow(table.Row{e.ID, e.Name, e.Store})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("found=%d not_found=%d", found, missing), ""})
	t.Render()
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
