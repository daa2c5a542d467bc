package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/John-Robertt/extname/internal/domain"
	"github.com/John-Robertt/extname/internal/infra/fsx"
)

// SheetName 是导出工作簿里唯一的工作表。
const SheetName = "Extensions"

// WriteExcel 写出单表工作簿：表头 + 每条一行，并在 A1:C<n+1> 上开启自动筛选。
func WriteExcel(b *domain.Batch, path string) error {
	f, err := buildWorkbook(b)
	if err != nil {
		return err
	}
	defer f.Close()

	return fsx.WriteAtomic(path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
}

func buildWorkbook(b *domain.Batch) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, err
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		_ = f.Close()
		return nil, err
	}

	entries := b.Entries()
	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		vals := []any{string(e.ID), e.Name, string(e.Store)}
		if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	rangeRef := fmt.Sprintf("A1:C%d", len(entries)+1)
	if err := f.AutoFilter(SheetName, rangeRef, nil); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}
