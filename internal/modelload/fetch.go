package modelload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const userAgent = "figure-viewer/1.0"

// Resolve turns ref into an absolute location relative to base. base may be an http(s) URL
// (e.g. "http://localhost:3000/models/") or a directory; absolute refs are returned unchanged.
func Resolve(base, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("modelload: empty model reference")
	}
	if u, err := url.Parse(ref); err == nil && isRemote(u) {
		return u.String(), nil
	}
	if strings.HasPrefix(ref, "file://") {
		return strings.TrimPrefix(ref, "file://"), nil
	}
	if b, err := url.Parse(base); err == nil && isRemote(b) {
		r, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("modelload: %w", err)
		}
		return b.ResolveReference(r).String(), nil
	}
	if filepath.IsAbs(ref) || base == "" {
		return filepath.Clean(ref), nil
	}
	return filepath.Join(base, ref), nil
}

func isRemote(u *url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}

// fetch reads the whole asset at loc, over HTTP for http(s) locations and from disk otherwise.
// There is no timeout beyond ctx.
func fetch(ctx context.Context, client *http.Client, loc string) ([]byte, error) {
	if u, err := url.Parse(loc); err == nil && isRemote(u) {
		return fetchHTTP(ctx, client, loc)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("modelload: %w", err)
	}
	data, err := os.ReadFile(loc)
	if err != nil {
		return nil, fmt.Errorf("modelload: %w", err)
	}
	return data, nil
}

func fetchHTTP(ctx context.Context, client *http.Client, loc string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, fmt.Errorf("modelload: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", glbMIME+", model/gltf+json;q=0.9, */*;q=0.1")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("modelload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("modelload: GET %s: HTTP %d", loc, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("modelload: GET %s: %w", loc, err)
	}
	return data, nil
}
