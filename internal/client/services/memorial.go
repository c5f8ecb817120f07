package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/memoria/internal/client/client"
	"github.com/dmitrijs2005/memoria/internal/client/models"
	"github.com/dmitrijs2005/memoria/internal/filex"
	"github.com/dmitrijs2005/memoria/internal/logging"
	"github.com/google/uuid"
)

var (
	nowFn = time.Now

	newNameSuffix = func() string {
		return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	}
)

// MemorialService is the memorial repository.
//
// Reads need no session. CreateMemorial performs no validation; callers run
// the form rules first. UserOwnsMemorial never fails: any lookup problem
// means "not the owner".
type MemorialService interface {
	UploadImage(ctx context.Context, localPath string) (string, error)
	UploadImageAs(ctx context.Context, localPath, fileName string) (string, error)
	GetAllMemorials(ctx context.Context) ([]*models.Memorial, error)
	GetUserMemorials(ctx context.Context, userID string) ([]*models.Memorial, error)
	GetMemorialByID(ctx context.Context, id string) (*models.Memorial, error)
	CreateMemorial(ctx context.Context, draft models.MemorialDraft, userID string) (*models.Memorial, error)
	CreateWithImage(ctx context.Context, draft models.MemorialDraft, imagePath, userID string) (*CreateResult, error)
	UserOwnsMemorial(ctx context.Context, memorialID, userID string) bool
}

// CreateResult is the outcome of CreateWithImage. ImageWarning is set when
// the image could not be uploaded and the memorial was created without it.
type CreateResult struct {
	Memorial     *models.Memorial
	ImageWarning error
}

type memorialService struct {
	rows   client.RowStore
	blobs  client.BlobStore
	logger logging.Logger
}

func NewMemorialService(rows client.RowStore, blobs client.BlobStore, logger logging.Logger) MemorialService {
	return &memorialService{rows: rows, blobs: blobs, logger: logger.With("component", "memorials")}
}

// NewImageFileName returns a collision-resistant object name:
// memorial_<unix millis>_<random>.<ext>.
func NewImageFileName(contentType string) string {
	return fmt.Sprintf("memorial_%d_%s.%s", nowFn().UnixMilli(), newNameSuffix(), filex.ImageExt(contentType))
}

// UploadImage uploads the file at localPath under a freshly generated name
// and returns its public URL.
func (s *memorialService) UploadImage(ctx context.Context, localPath string) (string, error) {
	data, ct, err := filex.ReadImage(localPath)
	if err != nil {
		s.logger.Warn(ctx, "error reading image", "path", localPath, "error", err)
		return "", err
	}
	return s.upload(ctx, NewImageFileName(ct), data, ct)
}

// UploadImageAs uploads the file at localPath under fileName. An existing
// object with that name is never replaced; the upload fails instead.
func (s *memorialService) UploadImageAs(ctx context.Context, localPath, fileName string) (string, error) {
	data, ct, err := filex.ReadImage(localPath)
	if err != nil {
		s.logger.Warn(ctx, "error reading image", "path", localPath, "error", err)
		return "", err
	}
	return s.upload(ctx, fileName, data, ct)
}

func (s *memorialService) upload(ctx context.Context, fileName string, data []byte, contentType string) (string, error) {
	if err := s.blobs.Upload(ctx, fileName, data, contentType); err != nil {
		s.logger.Warn(ctx, "error uploading image", "file", fileName, "error", err)
		return "", err
	}

	url := s.blobs.PublicURL(fileName)
	s.logger.Info(ctx, "image uploaded", "file", fileName, "url", url)
	return url, nil
}

func (s *memorialService) GetAllMemorials(ctx context.Context) ([]*models.Memorial, error) {
	rows, err := s.rows.SelectMemorials(ctx, models.MemorialQuery{})
	if err != nil {
		s.logger.Error(ctx, "error fetching memorials", "error", err)
		return nil, err
	}
	return toMemorials(rows), nil
}

func (s *memorialService) GetUserMemorials(ctx context.Context, userID string) ([]*models.Memorial, error) {
	rows, err := s.rows.SelectMemorials(ctx, models.MemorialQuery{CreatedBy: userID})
	if err != nil {
		s.logger.Error(ctx, "error fetching user memorials", "user_id", userID, "error", err)
		return nil, err
	}
	return toMemorials(rows), nil
}

// GetMemorialByID returns (nil, nil) when no memorial has this id.
func (s *memorialService) GetMemorialByID(ctx context.Context, id string) (*models.Memorial, error) {
	rows, err := s.rows.SelectMemorials(ctx, models.MemorialQuery{ID: id, Limit: 1})
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error(ctx, "error fetching memorial", "id", id, "error", err)
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].ToMemorial(), nil
}

func (s *memorialService) CreateMemorial(ctx context.Context, draft models.MemorialDraft, userID string) (*models.Memorial, error) {
	row, err := s.rows.InsertMemorial(ctx, models.RowFromDraft(draft, userID))
	if err != nil {
		s.logger.Error(ctx, "error creating memorial", "user_id", userID, "error", err)
		return nil, err
	}

	m := row.ToMemorial()
	s.logger.Info(ctx, "memorial created", "id", m.ID, "user_id", userID)
	return m, nil
}

// CreateWithImage uploads the image at imagePath (if any) and creates the
// memorial. A failed upload does not stop the creation; it is reported in
// CreateResult.ImageWarning and the memorial has no profile image.
func (s *memorialService) CreateWithImage(ctx context.Context, draft models.MemorialDraft, imagePath, userID string) (*CreateResult, error) {
	res := &CreateResult{}

	if imagePath != "" {
		url, err := s.UploadImage(ctx, imagePath)
		if err != nil {
			res.ImageWarning = err
			draft.ProfileImage = ""
		} else {
			draft.ProfileImage = url
		}
	}

	m, err := s.CreateMemorial(ctx, draft, userID)
	if err != nil {
		return nil, err
	}
	res.Memorial = m
	return res, nil
}

func (s *memorialService) UserOwnsMemorial(ctx context.Context, memorialID, userID string) bool {
	if memorialID == "" || userID == "" {
		return false
	}

	m, err := s.GetMemorialByID(ctx, memorialID)
	if err != nil {
		s.logger.Warn(ctx, "error checking memorial ownership", "id", memorialID, "error", err)
		return false
	}
	return m != nil && m.CreatedBy == userID
}

func toMemorials(rows []models.MemorialRow) []*models.Memorial {
	out := make([]*models.Memorial, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToMemorial())
	}
	return out
}
