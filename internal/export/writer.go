// Package export writes reports to local files or S3.
package export

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/juju/errors"
	"github.com/juju/utils/v4"
)

// WriterFactory opens a destination for one report. Nothing is visible at
// the destination until Close succeeds.
type WriterFactory interface {
	NewWriter(ctx context.Context, path string) (io.WriteCloser, error)
}

// ObjectPutter is the part of *s3.Client the S3 writer needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3WriterFactory struct {
	client ObjectPutter
	bucket string
}

func NewS3WriterFactory(ctx context.Context, region, bucket string) (*S3WriterFactory, error) {
	if bucket == "" {
		return nil, errors.NotValidf("empty S3 bucket")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Annotate(err, "load AWS config")
	}
	return &S3WriterFactory{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// NewS3WriterFactoryWithClient is used when the client is built elsewhere.
func NewS3WriterFactoryWithClient(client ObjectPutter, bucket string) *S3WriterFactory {
	return &S3WriterFactory{client: client, bucket: bucket}
}

func (f *S3WriterFactory) NewWriter(ctx context.Context, key string) (io.WriteCloser, error) {
	return &s3Writer{ctx: ctx, client: f.client, bucket: f.bucket, key: key}, nil
}

type s3Writer struct {
	ctx    context.Context
	client ObjectPutter
	bucket string
	key    string
	buf    bytes.Buffer
}

func (w *s3Writer) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *s3Writer) Close() error {
	_, err := w.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.key),
		Body:   bytes.NewReader(w.buf.Bytes()),
	})
	if err != nil {
		return errors.Annotatef(err, "upload s3://%s/%s", w.bucket, w.key)
	}
	return nil
}

// FileWriterFactory writes below a local directory.
type FileWriterFactory struct {
	dir string
}

func NewFileWriterFactory(dir string) *FileWriterFactory { return &FileWriterFactory{dir: dir} }

func (f *FileWriterFactory) NewWriter(_ context.Context, path string) (io.WriteCloser, error) {
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(f.dir, path)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, errors.Trace(err)
	}
	return &fileWriter{path: full}, nil
}

type fileWriter struct {
	path string
	buf  bytes.Buffer
}

func (w *fileWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *fileWriter) Close() error {
	return errors.Annotatef(utils.AtomicWriteFile(w.path, w.buf.Bytes(), 0o644), "write %s", w.path)
}
