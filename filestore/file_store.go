// Package filestore holds the object-storage backends for profile picture
// uploads. Size and MIME-type limits are enforced by the upload handler
// before a store is ever called.
package filestore

import (
	"context"
	"io"
)

// AvatarStore uploads a profile picture and returns its public URL.
type AvatarStore interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (publicUrl string, err error)
}
