package export

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LinkTTL is how long a published download link stays valid
const LinkTTL = 24 * time.Hour

var (
	loadAWSConfig = config.LoadDefaultConfig

	newS3Client = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
	newObjectID = uuid.NewString
)

var contentTypes = map[string]string{
	".csv": "text/csv; charset=utf-8",
	".png": "image/png",
}

// Config holds S3 settings; Endpoint is set for S3-compatible stores such as MinIO
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Enabled reports whether a bucket is configured
func (c Config) Enabled() bool {
	return c.Bucket != ""
}

// S3Publisher uploads export files and hands out presigned download links
type S3Publisher struct {
	bucket  string
	client  *s3.Client
	presign *s3.PresignClient
	now     func() time.Time
	logger  *zap.Logger
}

// NewS3Publisher creates a publisher for cfg.Bucket
func NewS3Publisher(ctx context.Context, cfg Config, logger *zap.Logger) (*S3Publisher, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("s3 bucket not configured")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3Client(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Publisher{
		bucket:  cfg.Bucket,
		client:  client,
		presign: s3.NewPresignClient(client),
		now:     time.Now,
		logger:  logger,
	}, nil
}

// ObjectKey returns exports/<user>/<yyyy>/<mm>/<dd>/<id>-<filename>
func ObjectKey(userID, filename string, at time.Time, id string) string {
	return path.Join("exports", userID, at.Format("2006/01/02"), id+"-"+path.Base(filename))
}

// Publish uploads content and returns a presigned GET URL valid for LinkTTL
func (p *S3Publisher) Publish(ctx context.Context, userID, filename string, content []byte) (string, error) {
	key := ObjectKey(userID, filename, p.now().UTC(), newObjectID())

	err := putObject(p.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType(filename)),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	req, err := presignGetObject(p.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(LinkTTL))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}

	p.logger.Info("Export published",
		zap.String("user_id", userID),
		zap.String("key", key),
		zap.Int("bytes", len(content)),
	)

	return req.URL, nil
}

func contentType(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}
