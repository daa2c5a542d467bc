package idfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/John-Robertt/extname/internal/domain"
)

const bom = "\ufeff"

// Read 读取换行分隔的扩展 ID 列表。
//
// - 每行去除首尾空白（兼容 CRLF），空行跳过
// - 不去重：重复 ID 原样保留，由 Batch 的“后写覆盖”语义处理
func Read(r io.Reader) ([]domain.ExtensionID, error) {
	sc := bufio.NewScanner(r)
	ids := make([]domain.ExtensionID, 0, 64)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			line = strings.TrimPrefix(line, bom)
			first = false
		}
		if id, ok := domain.ParseExtensionID(line); ok {
			ids = append(ids, id)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ReadFile 打开 path 并调用 Read。文件里没有任何 ID 时返回空列表。
func ReadFile(path string) ([]domain.ExtensionID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ids, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("读取 %q 失败：%w", path, err)
	}
	return ids, nil
}
