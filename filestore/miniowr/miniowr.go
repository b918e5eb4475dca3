// Package miniowr implements filestore.FileStore on a MinIO bucket.
package miniowr

import (
	"context"
	"io"

	"github.com/code19m/errx"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rise-and-shine/catalog/filestore"
)

const codeNoSuchKey = "NoSuchKey"

var _ filestore.FileStore = (*Client)(nil)

// Client stores objects in a single bucket.
type Client struct {
	client *minio.Client
	bucket string
}

// New creates a MinIO client for cfg.Bucket.
func New(cfg Config) (*Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &Client{client: client, bucket: cfg.Bucket}, nil
}

// Upload streams the object with an unknown size.
func (c *Client) Upload(ctx context.Context, path string, reader io.Reader) (*filestore.FileInfo, error) {
	contentType := filestore.ContentTypeOf(path)

	info, err := c.client.PutObject(ctx, c.bucket, path, reader, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"bucket": c.bucket, "path": path}))
	}

	return &filestore.FileInfo{
		Path:         path,
		Size:         info.Size,
		ContentType:  contentType,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

func (c *Client) Get(ctx context.Context, path string) (*filestore.File, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, c.wrapMinioError(err, path)
	}

	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, c.wrapMinioError(err, path)
	}

	return &filestore.File{
		Content: obj,
		Info: filestore.FileInfo{
			Path:         path,
			Size:         stat.Size,
			ContentType:  stat.ContentType,
			ETag:         stat.ETag,
			LastModified: stat.LastModified,
		},
	}, nil
}

func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	_, err := c.client.StatObject(ctx, c.bucket, path, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == codeNoSuchKey {
		return false, nil
	}
	return false, c.wrapMinioError(err, path)
}

func (c *Client) wrapMinioError(err error, path string) error {
	details := errx.D{"bucket": c.bucket, "path": path}
	if minio.ToErrorResponse(err).Code == codeNoSuchKey {
		return errx.New(
			"file not found",
			errx.WithCode(filestore.CodeFileNotFound),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(details),
		)
	}
	return errx.Wrap(err, errx.WithDetails(details))
}
