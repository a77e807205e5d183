package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSLibrary mirrors a bucket prefix of shared assets (music, watermarks)
// into a local cache directory on first use.
type GCSLibrary struct {
	client   *storage.Client
	bucket   string
	assetDir string
	cacheDir string
}

func NewGCSLibrary(ctx context.Context, bucket, assetDir, cacheDir string) (*GCSLibrary, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	return &GCSLibrary{
		client:   client,
		bucket:   bucket,
		assetDir: assetDir,
		cacheDir: cacheDir,
	}, nil
}

func (l *GCSLibrary) Close() error {
	return l.client.Close()
}

func (l *GCSLibrary) Lookup(ctx context.Context, name string) (string, error) {
	objects, err := l.listObjects(ctx)
	if err != nil {
		return "", err
	}

	for _, object := range objects {
		base := strings.TrimSuffix(filepath.Base(object), filepath.Ext(object))
		if strings.EqualFold(base, name) {
			return l.materialize(ctx, object)
		}
	}
	return "", fmt.Errorf("asset %q not found in gs://%s/%s", name, l.bucket, l.assetDir)
}

func (l *GCSLibrary) List(ctx context.Context) ([]string, error) {
	objects, err := l.listObjects(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(objects))
	for _, object := range objects {
		names = append(names, strings.TrimSuffix(filepath.Base(object), filepath.Ext(object)))
	}
	return names, nil
}

func (l *GCSLibrary) listObjects(ctx context.Context) ([]string, error) {
	var objects []string
	it := l.client.Bucket(l.bucket).Objects(ctx, &storage.Query{Prefix: l.assetDir})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list bucket objects: %w", err)
		}
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		objects = append(objects, attrs.Name)
	}
	return objects, nil
}

// materialize downloads an object into the cache unless already present.
func (l *GCSLibrary) materialize(ctx context.Context, object string) (string, error) {
	localPath := filepath.Join(l.cacheDir, filepath.Base(object))
	if _, err := os.Stat(localPath); err == nil {
		return localPath, nil
	}

	if err := os.MkdirAll(l.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}

	reader, err := l.client.Bucket(l.bucket).Object(object).NewReader(ctx)
	if err != nil {
		return "", fmt.Errorf("open gcs object: %w", err)
	}
	defer func() { _ = reader.Close() }()

	file, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("create cache file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := io.Copy(file, reader); err != nil {
		_ = os.Remove(localPath)
		return "", fmt.Errorf("download gcs object: %w", err)
	}

	return localPath, nil
}
