package export

import (
	"encoding/csv"
	"io"

	"github.com/John-Robertt/extname/internal/domain"
	"github.com/John-Robertt/extname/internal/infra/fsx"
)

// WriteCSV 写出带表头的 CSV；未找到的条目 Browser 列为空。
func WriteCSV(b *domain.Batch, path string) error {
	return fsx.WriteAtomic(path, func(w io.Writer) error {
		return EncodeCSV(w, b)
	})
}

func EncodeCSV(w io.Writer, b *domain.Batch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range b.Entries() {
		if err := cw.Write(row(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
