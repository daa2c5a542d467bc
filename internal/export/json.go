package export

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/John-Robertt/extname/internal/domain"
	"github.com/John-Robertt/extname/internal/infra/fsx"
)

// map 无序，因此用流式编码器手工按 Batch 顺序写出 key。
var jsonAPI = jsoniter.Config{
	IndentionStep: 4,
	EscapeHTML:    false,
}.Froze()

// WriteJSON 写出 {"<id>": {"Extension Name": ..., "Browser": ...}, ...}，4 空格缩进。
func WriteJSON(b *domain.Batch, path string) error {
	return fsx.WriteAtomic(path, func(w io.Writer) error {
		return EncodeJSON(w, b)
	})
}

func EncodeJSON(w io.Writer, b *domain.Batch) error {
	entries := b.Entries()
	if len(entries) == 0 {
		_, err := io.WriteString(w, "{}\n")
		return err
	}

	s := jsoniter.NewStream(jsonAPI, w, 4096)
	s.WriteObjectStart()
	for i, e := range entries {
		if i > 0 {
			s.WriteMore()
		}
		s.WriteObjectField(string(e.ID))
		s.WriteObjectStart()
		s.WriteObjectField(ColumnName)
		s.WriteString(e.Name)
		s.WriteMore()
		s.WriteObjectField(ColumnBrowser)
		s.WriteString(string(e.Store))
		s.WriteObjectEnd()
	}
	s.WriteObjectEnd()
	s.WriteRaw("\n")
	if s.Error != nil {
		return s.Error
	}
	return s.Flush()
}
