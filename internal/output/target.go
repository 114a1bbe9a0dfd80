package output

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/chrisdamba/hotelsim/internal/cloudwriter"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
)

// Target is where export files are created.
type Target interface {
	Create(fileName string) (io.WriteCloser, error)
	CreateParquet(fileName string) (source.ParquetFile, error)
	Location(fileName string) string
}

type LocalTarget struct {
	basePath string
}

// NewLocalTarget makes sure basePath exists.
func NewLocalTarget(basePath string) (*LocalTarget, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create export directory %s: %w", basePath, err)
	}
	return &LocalTarget{basePath: basePath}, nil
}

func (l *LocalTarget) Create(fileName string) (io.WriteCloser, error) {
	return os.Create(l.Location(fileName))
}

func (l *LocalTarget) CreateParquet(fileName string) (source.ParquetFile, error) {
	fw, err := local.NewLocalFileWriter(l.Location(fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to create local file writer: %w", err)
	}
	return fw, nil
}

func (l *LocalTarget) Location(fileName string) string {
	return filepath.Join(l.basePath, fileName)
}

// CloudTarget uploads each export as one object under prefix.
type CloudTarget struct {
	factory cloudwriter.CloudWriterFactory
	bucket  string
	prefix  string
}

func NewCloudTarget(factory cloudwriter.CloudWriterFactory, bucket, prefix string) *CloudTarget {
	return &CloudTarget{factory: factory, bucket: bucket, prefix: prefix}
}

func (c *CloudTarget) Create(fileName string) (io.WriteCloser, error) {
	w, err := c.factory.NewWriter(c.bucket, c.objectPath(fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
	}
	return w, nil
}

func (c *CloudTarget) CreateParquet(fileName string) (source.ParquetFile, error) {
	w, err := c.factory.NewWriter(c.bucket, c.objectPath(fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
	}
	return NewCloudParquetFile(w), nil
}

func (c *CloudTarget) Location(fileName string) string {
	return fmt.Sprintf("s3://%s/%s", c.bucket, c.objectPath(fileName))
}

func (c *CloudTarget) objectPath(fileName string) string {
	return path.Join(c.prefix, fileName)
}

// CloudParquetFile adapts a CloudWriter to the write-only subset of source.ParquetFile.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCloudParquetFile(cloudWriter cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cloudWriter}
}

// Open and Create return the same instance; the object is created on the first write.
func (c *CloudParquetFile) Open(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Create(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read(p []byte) (n int, err error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (n int, err error) {
	n, err = c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
