package s3client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const (
	defaultMaxRetries = 5
	defaultBaseDelay  = 100 * time.Millisecond
	defaultMaxDelay   = 30 * time.Second
)

type AWSClient struct {
	client     *s3.Client
	downloader *manager.Downloader
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func NewAWSClient(cfg aws.Config) *AWSClient {
	client := s3.NewFromConfig(cfg)
	return &AWSClient{
		client:     client,
		downloader: manager.NewDownloader(client),
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
	}
}

func (c *AWSClient) ListObjects(ctx context.Context, req *ListObjectsRequest) ([]ItemMetadata, error) {
	var items []ItemMetadata

	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(req.Bucket),
		Prefix: aws.String(req.Prefix),
	})

	for paginator.HasMorePages() {
		page, err := withRetry(ctx, c, func() (*s3.ListObjectsV2Output, error) {
			return paginator.NextPage(ctx)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil || obj.Size == nil {
				continue
			}

			items = append(items, ItemMetadata{
				Key:     *obj.Key,
				Path:    trimS3KeyPrefix(*obj.Key, req.Prefix),
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
			})
		}
	}

	return items, nil
}

func (c *AWSClient) Download(ctx context.Context, req *DownloadRequest) error {
	if err := os.MkdirAll(filepath.Dir(req.Dest), 0755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	_, err := withRetry(ctx, c, func() (int64, error) {
		f, err := os.Create(req.Dest)
		if err != nil {
			return 0, err
		}
		defer f.Close()

		return c.downloader.Download(ctx, f, &s3.GetObjectInput{
			Bucket: aws.String(req.Bucket),
			Key:    aws.String(req.Key),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to download s3://%s/%s: %w", req.Bucket, req.Key, err)
	}

	return nil
}

func withRetry[T any](ctx context.Context, c *AWSClient, fn func() (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		output, err := fn()
		if err == nil {
			return output, nil
		}

		if !isRetryableError(err) {
			return zero, err
		}

		lastErr = err
		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(c.calculateDelay(attempt)):
			}
		}
	}
	return zero, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func isRetryableError(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "SlowDown", "ServiceUnavailable", "RequestTimeout", "RequestTimeoutException":
			return true
		}
		// Retry on 5xx errors
		if httpErr, ok := apiErr.(interface{ HTTPStatusCode() int }); ok {
			code := httpErr.HTTPStatusCode()
			return code >= 500 && code < 600
		}
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF)
}

// calculateDelay is exponential backoff with ±25% jitter, capped at maxDelay.
func (c *AWSClient) calculateDelay(attempt int) time.Duration {
	delay := float64(c.baseDelay) * math.Pow(2.0, float64(attempt))
	delay += delay * 0.25 * (2*rand.Float64() - 1)

	if delay > float64(c.maxDelay) {
		delay = float64(c.maxDelay)
	}
	return time.Duration(delay)
}
