// Package loader fetches a GLB asset from a path or URL and decodes it,
// reporting progress while the bytes arrive.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/taigrr/vitrine/pkg/models"
)

// Result is the outcome of one load: either Asset or Err is set.
type Result struct {
	URL   string
	Asset *models.Asset
	Err   error
}

// OK reports whether the load succeeded.
func (r Result) OK() bool {
	return r.Err == nil && r.Asset != nil
}

// Loader loads assets. The zero value is not usable; use New.
type Loader struct {
	Client *http.Client
	GLTF   *models.GLTFLoader
	Logger *slog.Logger
}

// New returns a loader with the default HTTP client.
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		Client: http.DefaultClient,
		GLTF:   models.NewGLTFLoader(),
		Logger: logger,
	}
}

// Load fetches and decodes the asset at rawURL. Supported forms are
// http(s) URLs, file:// URLs and plain paths. Failures are logged, not
// retried, and returned as *Error.
func (l *Loader) Load(ctx context.Context, rawURL string, obs Observer) Result {
	asset, err := l.load(ctx, rawURL, obs)
	if err != nil {
		err = &Error{URL: rawURL, Err: err}
		l.Logger.Error("load model", "url", rawURL, "error", err)
		return Result{URL: rawURL, Err: err}
	}
	l.Logger.Info("model loaded",
		"url", rawURL,
		"triangles", asset.Root.TriangleCount(),
		"clips", len(asset.Clips),
	)
	return Result{URL: rawURL, Asset: asset}
}

func (l *Loader) load(ctx context.Context, rawURL string, obs Observer) (*models.Asset, error) {
	src, err := l.open(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer src.body.Close()

	cr := &countingReader{
		r:       src.body,
		tracker: tracker{total: src.size},
		obs:     obs,
	}
	data, err := io.ReadAll(cr)
	if err != nil {
		return nil, fmt.Errorf("read asset: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return l.GLTF.Decode(bytes.NewReader(data), src.fsys, src.name)
}

type source struct {
	body io.ReadCloser
	size int64
	name string
	// fsys resolves external buffers; nil for network sources.
	fsys fs.FS
}

func (l *Loader) open(ctx context.Context, rawURL string) (*source, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Bare path, including Windows drive letters.
		return openFile(rawURL)
	}

	switch u.Scheme {
	case "http", "https":
		return l.openHTTP(ctx, u)
	case "file":
		return openFile(u.Path)
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}

func openFile(path string) (*source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat asset: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("open asset: %s is a directory", path)
	}
	return &source{
		body: f,
		size: info.Size(),
		name: filepath.Base(path),
		fsys: os.DirFS(filepath.Dir(path)),
	}, nil
}

func (l *Loader) openHTTP(ctx context.Context, u *url.URL) (*source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch asset: %w", err)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	name := filepath.Base(u.Path)
	if name == "." || name == "/" {
		name = u.Host
	}
	return &source{
		body: resp.Body,
		size: resp.ContentLength,
		name: name,
	}, nil
}
