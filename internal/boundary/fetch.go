package boundary

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Fetch downloads the boundary GeoJSON to cachePath with a plain GET.
// When refresh is false and a cache file exists, the cache is used as-is.
// On a failed download an existing stale cache is kept with a warning;
// with no cache at all the run cannot proceed.
func Fetch(ctx context.Context, client *http.Client, url, cachePath string, refresh bool) error {
	if client == nil {
		client = http.DefaultClient
	}
	log := zap.L().With(zap.String("component", "boundary"))

	_, statErr := os.Stat(cachePath)
	cached := statErr == nil

	if cached && !refresh {
		log.Info("using cached boundary data", zap.String("path", cachePath))
		return nil
	}

	log.Info("fetching boundary data", zap.String("url", url))
	if err := download(ctx, client, url, cachePath); err != nil {
		if cached {
			log.Warn("boundary fetch failed, falling back to stale cache",
				zap.String("path", cachePath),
				zap.Error(err),
			)
			return nil
		}
		return eris.Wrap(err, "boundary: fetch with no cache fallback")
	}

	log.Info("cached boundary data", zap.String("path", cachePath))
	return nil
}

// download fetches a URL to a local file.
func download(ctx context.Context, client *http.Client, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return eris.Wrap(err, "build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return eris.Wrap(err, "download")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return eris.Wrap(err, "create file")
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(f, resp.Body); err != nil {
		return eris.Wrap(err, "write file")
	}

	return nil
}
