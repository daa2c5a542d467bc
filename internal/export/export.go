// Package export 把一次运行的 Batch 写成 CSV / Excel / JSON 文件。
//
// 三种格式共用同一组列：Extension ID、Extension Name、Browser；行顺序即 Batch 的插入顺序。
// 所有文件都经 fsx 原子写入，失败时不留下半截文件。
package export

import (
	"fmt"

	"github.com/John-Robertt/extname/internal/config"
	"github.com/John-Robertt/extname/internal/domain"
)

const (
	ColumnID      = "Extension ID"
	ColumnName    = "Extension Name"
	ColumnBrowser = "Browser"
)

// Header 是 CSV 与 Excel 的表头行。
var Header = []string{ColumnID, ColumnName, ColumnBrowser}

// Format 标识一种导出格式。
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatJSON  Format = "json"
)

// Error 指明哪种格式、哪个路径写入失败。
type Error struct {
	Format Format
	Path   string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("导出 %s 失败（%s）：%v", e.Format, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Written 记录一个成功写出的文件。
type Written struct {
	Format Format
	Path   string
}

// Write 按 CSV、Excel、JSON 的顺序写出 out 中非空的目标。
// 遇到第一个失败即返回；之前已写出的文件保留。
func Write(b *domain.Batch, out config.Outputs) ([]Written, error) {
	steps := []struct {
		format Format
		path   string
		write  func(*domain.Batch, string) error
	}{
		{FormatCSV, out.CSV, WriteCSV},
		{FormatExcel, out.Excel, WriteExcel},
		{FormatJSON, out.JSON, WriteJSON},
	}

	var done []Written
	for _, s := range steps {
		if s.path == "" {
			continue
		}
		if err := s.write(b, s.path); err != nil {
			return done, &Error{Format: s.format, Path: s.path, Err: err}
		}
		done = append(done, Written{Format: s.format, Path: s.path})
	}
	return done, nil
}

func row(e domain.Entry) []string {
	return []string{string(e.ID), e.Name, string(e.Store)}
}
