package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"billingBack/internal/billing"
)

// S3Config points at an S3-compatible bucket.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// ReceiptArchive stores a JSON copy of every receipt.
type ReceiptArchive struct {
	client s3iface.S3API
	bucket string
}

func NewReceiptArchive(cfg S3Config) (*ReceiptArchive, error) {
	awsCfg := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("s3 session: %w", err)
	}
	return &ReceiptArchive{client: s3.New(sess), bucket: cfg.Bucket}, nil
}

func ReceiptKey(r billing.Receipt) string {
	return fmt.Sprintf("receipts/%d/%d.json", r.InvoiceID, r.PaymentID)
}

// Put uploads the receipt and returns its object key.
func (a *ReceiptArchive) Put(ctx context.Context, r billing.Receipt) (string, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	key := ReceiptKey(r)
	_, err = a.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload receipt to S3: %w", err)
	}
	return key, nil
}
