package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

type BrotliConfig struct {
	Quality   int
	MinLength int
	// SkipPrefixes lists request paths served uncompressed.
	SkipPrefixes []string
}

var DefaultBrotliConfig = BrotliConfig{
	Quality:      brotli.DefaultCompression,
	MinLength:    1024,
	SkipPrefixes: []string{"/ws/", "/metrics", "/images/"},
}

// brotliWriter buffers the body until MinLength bytes have been written,
// then switches to streaming compression. Shorter bodies go out untouched.
type brotliWriter struct {
	gin.ResponseWriter
	enc       *brotli.Writer
	quality   int
	minLength int
	buf       []byte
}

func (bw *brotliWriter) Write(data []byte) (int, error) {
	if bw.enc != nil {
		return bw.enc.Write(data)
	}

	bw.buf = append(bw.buf, data...)
	if len(bw.buf) < bw.minLength {
		return len(data), nil
	}

	h := bw.ResponseWriter.Header()
	h.Set("Content-Encoding", "br")
	h.Del("Content-Length")
	bw.enc = brotli.NewWriterLevel(bw.ResponseWriter, bw.quality)

	if _, err := bw.enc.Write(bw.buf); err != nil {
		return 0, err
	}
	bw.buf = nil
	return len(data), nil
}

func (bw *brotliWriter) WriteString(s string) (int, error) {
	return bw.Write([]byte(s))
}

// Flush sends what is buffered. Before compression has started the buffer
// goes out as plain bytes.
func (bw *brotliWriter) Flush() {
	if bw.enc != nil {
		_ = bw.enc.Flush()
	} else if len(bw.buf) > 0 {
		_, _ = bw.ResponseWriter.Write(bw.buf)
		bw.buf = nil
	}
	bw.ResponseWriter.Flush()
}

func (bw *brotliWriter) close() error {
	if bw.enc != nil {
		return bw.enc.Close()
	}
	if len(bw.buf) == 0 {
		return nil
	}
	_, err := bw.ResponseWriter.Write(bw.buf)
	bw.buf = nil
	return err
}

func Brotli() gin.HandlerFunc {
	return BrotliWithConfig(DefaultBrotliConfig)
}

func BrotliWithConfig(cfg BrotliConfig) gin.HandlerFunc {
	if cfg.Quality < brotli.BestSpeed || cfg.Quality > brotli.BestCompression {
		cfg.Quality = brotli.DefaultCompression
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultBrotliConfig.MinLength
	}

	return func(c *gin.Context) {
		if skipCompression(c, cfg.SkipPrefixes) || !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		bw := &brotliWriter{
			ResponseWriter: c.Writer,
			quality:        cfg.Quality,
			minLength:      cfg.MinLength,
		}
		c.Writer = bw

		defer func() {
			if err := bw.close(); err != nil {
				_ = c.Error(err)
			}
		}()

		c.Next()
	}
}

// skipCompression passes through WebSocket upgrades, which fail if the
// response is wrapped, and configured path prefixes.
func skipCompression(c *gin.Context, prefixes []string) bool {
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return true
	}
	path := c.Request.URL.Path
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(enc), ";")
		if strings.EqualFold(name, "br") {
			return true
		}
	}
	return false
}
