// Package storage archiva el XML firmado y el CDR de cada guía en MinIO/S3.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jhoicas/gre-api/pkg/config"
)

// Prefijos de objetos dentro del bucket.
const (
	PrefixSignedXML = "xml-firmado/"
	PrefixCDR       = "cdr/"
)

// MinioArchive guarda documentos en un bucket S3-compatible.
type MinioArchive struct {
	client *minio.Client
	bucket string
}

// NewMinioArchive conecta con MinIO y crea el bucket si no existe.
func NewMinioArchive(ctx context.Context, cfg config.StorageConfig) (*MinioArchive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: crear cliente: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio: verificar bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio: crear bucket %s: %w", cfg.Bucket, err)
		}
	}
	return &MinioArchive{client: client, bucket: cfg.Bucket}, nil
}

// SaveSignedXML guarda el XML firmado como xml-firmado/{nombre}.
func (a *MinioArchive) SaveSignedXML(ctx context.Context, name string, data []byte) error {
	return a.put(ctx, PrefixSignedXML+name, data, "application/xml")
}

// SaveCDR guarda el ZIP del CDR como cdr/R-{nombre}.
func (a *MinioArchive) SaveCDR(ctx context.Context, name string, data []byte) error {
	return a.put(ctx, PrefixCDR+"R-"+name, data, "application/zip")
}

func (a *MinioArchive) put(ctx context.Context, object string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("minio: subir %s: %w", object, err)
	}
	return nil
}
