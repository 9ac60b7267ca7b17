// Package resume persists uploaded resume files and hands back the reference
// stored on the application record.
package resume

import (
	"context"

	"hirepath/internal/application/models"
)

// Store writes resume blobs. Delete exists only so a failed append can be
// compensated; resumes of accepted applications are never removed.
type Store interface {
	Save(ctx context.Context, file models.Attachment) (string, error)
	Delete(ctx context.Context, ref string) error
}

const pdfExt = ".pdf"

// objectName returns a collision-free name; the client filename is never used
// as a path component.
func objectName() (string, error) {
	id, err := models.NewApplicationID()
	if err != nil {
		return "", err
	}
	return id + pdfExt, nil
}
