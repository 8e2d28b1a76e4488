package artifact

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yuya-takeyama/strict-jar-diff/pkg/s3client"
)

// S3Source lists artifacts published under an S3 prefix. Pattern is matched
// against keys relative to Prefix.
type S3Source struct {
	Side    Side
	Client  s3client.Client
	Bucket  string
	Prefix  string
	Pattern string
}

func NewS3Source(side Side, client s3client.Client, uri, pattern string) (*S3Source, error) {
	bucket, prefix, err := s3client.ParseS3URI(uri)
	if err != nil {
		return nil, err
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	return &S3Source{
		Side:    side,
		Client:  client,
		Bucket:  bucket,
		Prefix:  prefix,
		Pattern: pattern,
	}, nil
}

func (s *S3Source) Discover(ctx context.Context) ([]Ref, error) {
	objects, err := s.Client.ListObjects(ctx, &s3client.ListObjectsRequest{
		Bucket: s.Bucket,
		Prefix: s.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list s3://%s/%s: %w", s.Bucket, s.Prefix, err)
	}

	refs := []Ref{}
	for _, obj := range objects {
		matched, err := doublestar.Match(s.Pattern, obj.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to match pattern for %s: %w", obj.Key, err)
		}
		if !matched {
			continue
		}
		refs = append(refs, Ref{Side: s.Side, Path: obj.Key, Bucket: s.Bucket})
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Path < refs[j].Path
	})
	return refs, nil
}

func (s *S3Source) Fetch(ctx context.Context, ref Ref, dir string) (string, error) {
	dest := filepath.Join(dir, ref.Name())
	err := s.Client.Download(ctx, &s3client.DownloadRequest{
		Bucket: ref.Bucket,
		Key:    ref.Path,
		Dest:   dest,
	})
	if err != nil {
		return "", err
	}
	return dest, nil
}
