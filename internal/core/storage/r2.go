package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Opts Cloudflare R2（S3 兼容）连接参数
type Opts struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
	Endpoint        string // 为空则用 https://<account>.r2.cloudflarestorage.com
	Region          string
}

// R2 上传图片并返回公开访问地址。client 可并发复用。
type R2 struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func (o Opts) endpoint() string {
	if o.Endpoint != "" {
		return o.Endpoint
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", o.AccountID)
}

func NewR2(ctx context.Context, o Opts) (*R2, error) {
	if o.AccessKeyID == "" || o.SecretAccessKey == "" || o.Bucket == "" || o.PublicURL == "" {
		return nil, errors.New("storage/r2: credentials, bucket and public url are required")
	}
	region := o.Region
	if region == "" {
		region = "auto"
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx,
		awscfg.WithRegion(region),
		awscfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.AccessKeyID, o.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("storage/r2: load config: %w", err)
	}
	endpoint := o.endpoint()
	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		so.BaseEndpoint = aws.String(endpoint)
		so.UsePathStyle = o.Endpoint != "" // 自定义端点（MinIO 等）走 path-style
	})
	return &R2{client: client, bucket: o.Bucket, publicURL: strings.TrimRight(o.PublicURL, "/")}, nil
}

func (r *R2) URL(key string) string {
	return r.publicURL + "/" + strings.TrimLeft(key, "/")
}

func (r *R2) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage/r2: put %s: %w", key, err)
	}
	return r.URL(key), nil
}
