package dataset

import (
	"context"
	"fmt"

	"gocloud.dev/blob"
)

// ImageStore writes fetched thumbnails to a blob bucket, one file per
// record, named after the content identifier.
type ImageStore struct {
	bucket *blob.Bucket
}

// NewImageStore creates an image store over the given bucket.
func NewImageStore(bucket *blob.Bucket) *ImageStore {
	return &ImageStore{bucket: bucket}
}

// Save writes data as "<cid>.jpg" and returns the chosen filename. When
// the target name is taken, an incrementing numeric suffix is appended
// before the extension ("<cid>_1.jpg", "<cid>_2.jpg", ...) until a free
// name is found, so identifier collisions or reruns never overwrite a
// previously saved image.
func (s *ImageStore) Save(ctx context.Context, cid string, data []byte) (string, error) {
	name := cid + ".jpg"
	for n := 1; ; n++ {
		exists, err := s.bucket.Exists(ctx, name)
		if err != nil {
			return "", fmt.Errorf("check image %s: %w", name, err)
		}
		if !exists {
			break
		}
		name = fmt.Sprintf("%s_%d.jpg", cid, n)
	}

	if err := s.bucket.WriteAll(ctx, name, data, nil); err != nil {
		return "", fmt.Errorf("save image %s: %w", name, err)
	}
	return name, nil
}
