package s3client

import (
	"context"
	"time"
)

type ItemMetadata struct {
	Key     string
	Path    string
	Size    int64
	ModTime time.Time
}

type Client interface {
	ListObjects(ctx context.Context, req *ListObjectsRequest) ([]ItemMetadata, error)
	Download(ctx context.Context, req *DownloadRequest) error
}

type ListObjectsRequest struct {
	Bucket string
	Prefix string
}

type DownloadRequest struct {
	Bucket string
	Key    string
	// Dest is the local file to create.
	Dest string
}
