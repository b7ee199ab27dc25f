package cloudflare

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"ventapos_backend/pkg/config"
)

var r2 config.R2Config

// Init stores the R2 credentials once at startup.
func Init(cfg config.R2Config) {
	r2 = cfg
}

func getS3Client() (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			r2.AccessKey,
			r2.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2.AccountID))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return client, nil
}

type UploadImageConfig struct {
	Body        *bytes.Buffer
	ContentType string
	Filename    string
	StoreSlug   string
	ProductSlug string
}

type UploadResult struct {
	URL       string
	StorageID string
}

// UploadImage pushes a processed product image to R2 under a store/product
// scoped key.
func UploadImage(config UploadImageConfig) (UploadResult, error) {
	safeStore := slug.Make(config.StoreSlug)
	safeProduct := slug.Make(config.ProductSlug)

	ext := filepath.Ext(config.Filename)
	uniqueID := fmt.Sprintf("%d-%s", time.Now().UnixNano(), uuid.New().String())
	uniqueFilename := uniqueID + ext

	objectKey := filepath.Join("stores", safeStore, "products", safeProduct, "images", uniqueFilename)

	client, err := getS3Client()
	if err != nil {
		return UploadResult{}, err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(r2.BucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(config.Body.Bytes()),
		ContentType: aws.String(config.ContentType),
	}

	_, err = client.PutObject(context.TODO(), input)
	if err != nil {
		return UploadResult{}, fmt.Errorf("could not upload file to R2: %v", err)
	}

	return UploadResult{
		URL:       fmt.Sprintf("%s/%s", strings.TrimRight(r2.PublicURL, "/"), objectKey),
		StorageID: uniqueID,
	}, nil
}

// DeleteImage removes an object given its public URL.
func DeleteImage(fullURL string) error {
	objectKey := getObjectKeyFromURL(fullURL)

	client, err := getS3Client()
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(r2.BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("could not delete file from R2: %v", err)
	}

	return nil
}

func getObjectKeyFromURL(fullURL string) string {
	trimmed := strings.TrimPrefix(fullURL, strings.TrimRight(r2.PublicURL, "/"))
	return strings.TrimPrefix(trimmed, "/")
}
