package s3client

import (
	"fmt"
	"path"
	"strings"
)

// ParseS3URI splits s3://bucket/prefix into its parts. The prefix is cleaned
// and carries no trailing slash.
func ParseS3URI(uri string) (bucket, prefix string, err error) {
	if !strings.HasPrefix(uri, "s3://") {
		return "", "", fmt.Errorf("invalid S3 URI %q: must start with s3://", uri)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, "s3://"), "/", 2)
	if parts[0] == "" {
		return "", "", fmt.Errorf("invalid S3 URI %q: missing bucket name", uri)
	}

	bucket = parts[0]
	if len(parts) > 1 && strings.Trim(parts[1], "/") != "" {
		prefix = strings.TrimPrefix(path.Clean(parts[1]), "/")
	}

	return bucket, prefix, nil
}

func IsS3URI(s string) bool {
	return strings.HasPrefix(s, "s3://")
}

func trimS3KeyPrefix(key, prefix string) string {
	if prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, prefix+"/")
}
