package minio_client

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/nebula-marketing/lead-importer/domain/app"
	"github.com/nebula-marketing/lead-importer/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rotisserie/eris"
)

// MinioStorage stages uploaded spreadsheets until a job worker picks them up.
type MinioStorage struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

var _ app.FileStorage = &MinioStorage{}

func New(cfg *config.Config, log *slog.Logger) (*MinioStorage, error) {
	mc := cfg.Infrastructure.Minio
	client, err := minio.New(mc.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(mc.AccessKey, mc.SecretKey, ""),
		Secure: mc.UseSSL,
	})
	if err != nil {
		return nil, eris.Wrap(err, "minio: create client")
	}
	return &MinioStorage{client: client, bucket: mc.Bucket, log: log}, nil
}

// EnsureBucket creates the staging bucket on first start.
func (this *MinioStorage) EnsureBucket(ctx context.Context) error {
	exists, err := this.client.BucketExists(ctx, this.bucket)
	if err != nil {
		return eris.Wrapf(err, "minio: check bucket %s", this.bucket)
	}
	if exists {
		return nil
	}
	if err := this.client.MakeBucket(ctx, this.bucket, minio.MakeBucketOptions{}); err != nil {
		return eris.Wrapf(err, "minio: make bucket %s", this.bucket)
	}
	this.log.Info("minio bucket created", "bucket", this.bucket)
	return nil
}

func (this *MinioStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := this.client.PutObject(ctx, this.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return eris.Wrapf(err, "minio: put %s", key)
	}
	return nil
}

func (this *MinioStorage) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := this.client.GetObject(ctx, this.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, eris.Wrapf(err, "minio: get %s", key)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, eris.Wrapf(err, "minio: read %s", key)
	}
	return data, nil
}

func (this *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := this.client.RemoveObject(ctx, this.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return eris.Wrapf(err, "minio: remove %s", key)
	}
	return nil
}
