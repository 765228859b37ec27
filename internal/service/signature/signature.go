// internal/service/signature/signature.go
package signature

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"uav-maintenance-service/internal/blob"
	"uav-maintenance-service/internal/domain/uav"
	"uav-maintenance-service/internal/fleet"
	xerrors "uav-maintenance-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const maxImageBytes = 2 << 20

var dataURLPattern = regexp.MustCompile(`^data:(image/[a-zA-Z0-9.+-]+);base64,(.+)$`)

// Image is a decoded signature.
type Image struct {
	ContentType string
	Data        []byte
}

// ParseDataURL decodes a base64 image data URL.
func ParseDataURL(dataURL string) (*Image, error) {
	m := dataURLPattern.FindStringSubmatch(strings.TrimSpace(dataURL))
	if m == nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "signature must be a base64 image data URL")
	}

	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "signature payload is not valid base64")
	}
	if len(data) == 0 {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "signature image is empty")
	}
	if len(data) > maxImageBytes {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "signature image is too large")
	}

	return &Image{ContentType: strings.ToLower(m[1]), Data: data}, nil
}

// Extension maps the image content type to a file extension.
func (img *Image) Extension() string {
	sub := strings.TrimPrefix(img.ContentType, "image/")
	switch sub {
	case "jpeg":
		return "jpg"
	case "svg+xml":
		return "svg"
	}
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, sub)
}

type SignatureService struct {
	store   *fleet.Store
	archive blob.Store
	logger  *zap.Logger
}

// NewSignatureService builds the service; archive may be nil to skip archiving.
func NewSignatureService(store *fleet.Store, archive blob.Store, logger *zap.Logger) *SignatureService {
	return &SignatureService{
		store:   store,
		archive: archive,
		logger:  logger,
	}
}

// Save attaches a manager signature to a record and archives the image
func (s *SignatureService) Save(ctx context.Context, id, dataURL string) error {
	img, err := ParseDataURL(dataURL)
	if err != nil {
		return err
	}

	if _, ok := s.store.Find(id); !ok {
		return xerrors.ErrNotFound
	}

	if s.archive != nil {
		key := fmt.Sprintf("signatures/%s/%s.%s", id, ulid.Make().String(), img.Extension())
		info, err := s.archive.Put(ctx, key, bytes.NewReader(img.Data), blob.PutOptions{
			ContentType: img.ContentType,
			Metadata:    map[string]string{"uav_id": id},
		})
		if err != nil {
			return fmt.Errorf("failed to archive signature: %w", err)
		}
		s.logger.Info("signature archived",
			zap.String("uav_id", id),
			zap.String("key", info.Key),
			zap.Int64("size", info.Size),
		)
	}

	signature := strings.TrimSpace(dataURL)
	return s.store.Update(ctx, id, &uav.UpdateUAVRequest{ManagerSignature: &signature})
}

// Image returns the decoded signature currently attached to a record
func (s *SignatureService) Image(id string) (*Image, error) {
	record, ok := s.store.Find(id)
	if !ok || !record.HasSignature() {
		return nil, xerrors.ErrNotFound
	}
	return ParseDataURL(*record.ManagerSignature)
}

// History lists archived signature images for a record, oldest first
func (s *SignatureService) History(ctx context.Context, id string) ([]blob.Info, error) {
	if s.archive == nil {
		return []blob.Info{}, nil
	}
	infos, err := s.archive.List(ctx, fmt.Sprintf("signatures/%s/", id))
	if err != nil {
		return nil, fmt.Errorf("failed to list signatures: %w", err)
	}
	if infos == nil {
		infos = []blob.Info{}
	}
	return infos, nil
}
