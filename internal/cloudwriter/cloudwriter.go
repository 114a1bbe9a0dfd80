// Package cloudwriter uploads export files to object storage.
package cloudwriter

import (
	"errors"
	"io"
)

// ErrNoBucket is returned when an export is routed to cloud storage without a bucket.
var ErrNoBucket = errors.New("cloud storage bucket is not set")

// CloudWriter buffers one object and uploads it on Close.
type CloudWriter interface {
	io.WriteCloser
}

// CloudWriterFactory opens one writer per exported file.
type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}
