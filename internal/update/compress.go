package update

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// acceptEncoding is advertised on every request.
const acceptEncoding = "zstd, gzip"

// decodeBody wraps body according to the Content-Encoding header.
func decodeBody(contentEncoding string, body io.Reader) (io.ReadCloser, error) {
	switch enc := strings.ToLower(strings.TrimSpace(contentEncoding)); {
	case enc == "" || enc == "identity":
		return io.NopCloser(body), nil
	case strings.Contains(enc, "zstd"):
		dec, err := zstd.NewReader(body, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("update: zstd decompress response: %w", err)
		}
		return &zstdReadCloser{dec: dec}, nil
	case strings.Contains(enc, "gzip"):
		gr, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("update: gzip decompress response: %w", err)
		}
		return gr, nil
	default:
		return nil, fmt.Errorf("update: unsupported content encoding %q", contentEncoding)
	}
}

type zstdReadCloser struct {
	dec *zstd.Decoder
}

func (z *zstdReadCloser) Read(p []byte) (int, error) {
	return z.dec.Read(p)
}

func (z *zstdReadCloser) Close() error {
	z.dec.Close()
	return nil
}
