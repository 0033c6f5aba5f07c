// Package assets loads logo and signature images for invoice rendering.
package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"invoicer/internal/port"
)

type loader struct {
	storage port.ObjectStorage
	bucket  string
	dir     string
}

// NewLoader returns an AssetLoader. References containing a slash are object
// keys in bucket; bare filenames are read from dir. storage may be nil, in
// which case only local files resolve.
func NewLoader(storage port.ObjectStorage, bucket, dir string) port.AssetLoader {
	return &loader{storage: storage, bucket: bucket, dir: dir}
}

func (l *loader) Load(ctx context.Context, ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("assets.Load: empty reference")
	}

	if strings.Contains(ref, "/") {
		if l.storage == nil {
			return nil, fmt.Errorf("assets.Load %s: no object storage configured", ref)
		}
		data, err := l.storage.Download(ctx, l.bucket, ref)
		if err != nil {
			return nil, fmt.Errorf("assets.Load %s: %w", ref, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(filepath.Join(l.dir, filepath.Base(ref)))
	if err != nil {
		return nil, fmt.Errorf("assets.Load %s: %w", ref, err)
	}
	return data, nil
}
