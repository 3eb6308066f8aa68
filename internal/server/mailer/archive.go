package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/shipagency/internal/notify"
)

// Archiver keeps a copy of every delivered notification.
type Archiver interface {
	Archive(ctx context.Context, rec Record) error
}

// Record is what gets archived.
type Record struct {
	MessageID string         `json:"messageId"`
	SentAt    time.Time      `json:"sentAt"`
	SentBy    string         `json:"sentBy,omitempty"`
	Message   notify.Message `json:"message"`
}

// S3Config points at an S3-compatible bucket (AWS or MinIO).
type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver stores records as JSON objects.
type S3Archiver struct {
	bucket string
	client objectPutter
}

func NewS3Archiver(ctx context.Context, cfg S3Config) (*S3Archiver, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			// MinIO and friends want path-style buckets
			o.UsePathStyle = true
		}
	})

	return &S3Archiver{bucket: cfg.Bucket, client: client}, nil
}

// ArchiveKey is notifications/YYYY/MM/DD/<vesselID>/<messageID>.json.
func ArchiveKey(rec Record) string {
	id := strings.Trim(rec.MessageID, "<>")
	id = strings.NewReplacer("/", "_", "@", "_at_").Replace(id)
	return fmt.Sprintf("notifications/%s/%s/%s.json",
		rec.SentAt.UTC().Format("2006/01/02"), rec.Message.VesselID, id)
}

func (a *S3Archiver) Archive(ctx context.Context, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(ArchiveKey(rec)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}
