package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Uploader stores listing and avatar images on an S3-compatible bucket.
type Uploader struct {
	bucket   string
	endpoint string
	client   *s3.S3
}

func NewUploader(accessKey, secretKey, bucket, region, endpoint string) (*Uploader, error) {
	if bucket == "" || endpoint == "" {
		return nil, fmt.Errorf("storage bucket and endpoint must be configured")
	}
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Endpoint:    aws.String(endpoint),
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
	})
	if err != nil {
		return nil, err
	}
	return &Uploader{
		bucket:   bucket,
		endpoint: endpoint,
		client:   s3.New(sess),
	}, nil
}

// UploadFile puts the object under folder/fileName with public-read access
// and returns the public URL.
func (u *Uploader) UploadFile(file []byte, fileName, folder, contentType string) (string, error) {
	filePath := fmt.Sprintf("%s/%s", folder, fileName)
	if contentType == "" {
		contentType = "image/jpeg"
	}

	_, err := u.client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(filePath),
		Body:          bytes.NewReader(file),
		ContentLength: aws.Int64(int64(len(file))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to storage: %v", err)
	}

	host := strings.TrimPrefix(strings.TrimPrefix(u.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", u.bucket, host, filePath), nil
}

// DeleteFile removes the object addressed by a URL previously returned from
// UploadFile. Unknown URLs are ignored.
func (u *Uploader) DeleteFile(fileURL string) error {
	host := strings.TrimPrefix(strings.TrimPrefix(u.endpoint, "https://"), "http://")
	prefix := fmt.Sprintf("https://%s.%s/", u.bucket, host)
	if !strings.HasPrefix(fileURL, prefix) {
		return nil
	}
	key := strings.TrimPrefix(fileURL, prefix)

	_, err := u.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	return err
}
