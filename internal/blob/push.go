package blob

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/san-kum/burnsim/internal/config"
	"github.com/san-kum/burnsim/internal/storage"
)

// Open builds the archive named by cfg.
func Open(ctx context.Context, cfg config.ArchiveConfig) (Store, error) {
	switch Driver(cfg.Driver) {
	case DriverFilesystem, "":
		return NewFilesystem(cfg.Path)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Region:    cfg.Region,
			Bucket:    cfg.Bucket,
			Endpoint:  cfg.Endpoint,
			PathStyle: cfg.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown archive driver %s", cfg.Driver)
	}
}

// Push copies one stored run into the archive under prefix/runID/.
func Push(ctx context.Context, runs storage.Store, archive Store, prefix, runID string) ([]Info, error) {
	artifacts, err := storage.Artifacts(runs, runID)
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(artifacts))
	for _, a := range artifacts {
		key := path.Join(prefix, runID, a.Name)
		info, err := archive.Put(ctx, key, bytes.NewReader(a.Body), a.ContentType)
		if err != nil {
			return infos, fmt.Errorf("push %s: %w", key, err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
