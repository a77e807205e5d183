package storage

import "context"

// AssetLibrary resolves named local assets (background music tracks,
// watermark logos) to a playable file path.
type AssetLibrary interface {
	Lookup(ctx context.Context, name string) (string, error)
	List(ctx context.Context) ([]string, error)
}
