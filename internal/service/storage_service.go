package service

import (
	"context"
	"path"

	"paperless-annotator/internal/domain"
)

// ObjectUploader stores exported files in a storage bucket.
type ObjectUploader interface {
	Upload(bucket, path string, data []byte, contentType string) error
}

// ArchivingDownloader keeps a copy of every export in a storage bucket before
// handing it to the client. Archive failures are logged and do not block
// delivery.
type ArchivingDownloader struct {
	next     domain.Downloader
	uploader ObjectUploader
	bucket   string
	prefix   string
	logger   domain.Logger
}

// NewArchivingDownloader wraps next. Objects are written below prefix in
// bucket.
func NewArchivingDownloader(
	next domain.Downloader,
	uploader ObjectUploader,
	bucket string,
	prefix string,
	logger domain.Logger,
) *ArchivingDownloader {
	return &ArchivingDownloader{
		next:     next,
		uploader: uploader,
		bucket:   bucket,
		prefix:   prefix,
		logger:   logger,
	}
}

func (d *ArchivingDownloader) Deliver(ctx context.Context, filename string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	object := path.Join(d.prefix, filename)
	if err := d.uploader.Upload(d.bucket, object, data, "application/pdf"); err != nil {
		d.logger.Warn("Failed to archive export", "bucket", d.bucket, "path", object, "error", err.Error())
	} else {
		d.logger.Debug("Export archived", "bucket", d.bucket, "path", object, "bytes", len(data))
	}

	return d.next.Deliver(ctx, filename, data)
}
