// Package storage exports report snapshots to S3-compatible object storage.
// The workbook stays the system of record; exports are point-in-time copies
// for audits and offline analysis.
package storage

import "context"

// ObjectStorage captures the minimal operations the export path needs.
type ObjectStorage interface {
	UploadObject(ctx context.Context, key string, contentType string, data []byte) error
}
