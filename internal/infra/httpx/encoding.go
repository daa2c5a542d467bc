package httpx

import (
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

const acceptEncoding = "br, gzip"

// decodeBody 按 Content-Encoding 就地替换 resp.Body 为解码后的流，并清掉编码相关头，
// 避免上层（resty 对 gzip 有自己的处理）重复解码。
func decodeBody(resp *http.Response) error {
	enc := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	var r io.Reader
	switch enc {
	case "", "identity":
		return nil
	case "br":
		r = brotli.NewReader(resp.Body)
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			if errors.Is(err, io.EOF) {
				// 空 body（例如 204/304）带了 gzip 头：当作无内容。
				r = strings.NewReader("")
				break
			}
			return err
		}
		r = gz
	default:
		// 未声明过的编码：原样返回，由上层自行决定。
		return nil
	}

	resp.Body = &decodedBody{Reader: r, closer: resp.Body}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return nil
}

type decodedBody struct {
	io.Reader
	closer io.Closer
}

func (b *decodedBody) Close() error { return b.closer.Close() }
