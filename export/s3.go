package export

import (
	"context"
	"io"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Uploader 把导出文件上传到 bucket 的 prefix 下
type S3Uploader struct {
	bucket   string
	prefix   string
	uploader *s3manager.Uploader
}

// NewS3Uploader 使用默认凭据链创建上传器
func NewS3Uploader(region, bucket, prefix string) (*S3Uploader, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, err
	}
	return &S3Uploader{
		bucket:   bucket,
		prefix:   prefix,
		uploader: s3manager.NewUploader(sess),
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := u.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(path.Join(u.prefix, key)),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	return err
}
