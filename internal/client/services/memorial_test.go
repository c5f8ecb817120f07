package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/dmitrijs2005/memoria/internal/client/client"
	"github.com/dmitrijs2005/memoria/internal/client/models"
	"github.com/dmitrijs2005/memoria/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func newMemorials(rows *fakeRowStore, blobs *fakeBlobStore) MemorialService {
	return NewMemorialService(rows, blobs, logging.NewNopLogger())
}

func writeImage(t *testing.T, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "photo")
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func fixFileName(t *testing.T, millis int64, suffix string) {
	t.Helper()
	origNow, origSuffix := nowFn, newNameSuffix
	t.Cleanup(func() { nowFn, newNameSuffix = origNow, origSuffix })
	nowFn = func() time.Time { return time.UnixMilli(millis) }
	newNameSuffix = func() string { return suffix }
}

func TestCreateThenGet_RoundTrip(t *testing.T) {
	svc := newMemorials(newFakeRowStore(), newFakeBlobStore())
	ctx := context.Background()

	draft := models.MemorialDraft{Name: "Anna Weber", BirthYear: 1921, DeathYear: 2004, Description: "Teacher"}
	created, err := svc.CreateMemorial(ctx, draft, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.GetMemorialByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, draft.Name, got.Name)
	assert.Equal(t, draft.BirthYear, got.BirthYear)
	assert.Equal(t, draft.DeathYear, got.DeathYear)
	assert.Equal(t, draft.Description, got.Description)
	assert.Equal(t, "u1", got.CreatedBy)
	assert.Empty(t, got.ProfileImage)
	assert.Equal(t, created, got)
}

func TestGetAllMemorials_NewestFirst(t *testing.T) {
	rows := newFakeRowStore()
	svc := newMemorials(rows, newFakeBlobStore())
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		_, err := svc.CreateMemorial(ctx, models.MemorialDraft{Name: name, BirthYear: 1900, DeathYear: 1950}, "u1")
		require.NoError(t, err)
	}

	all, err := svc.GetAllMemorials(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Name)
	assert.Equal(t, "first", all[2].Name)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].CreatedAt.After(all[i].CreatedAt))
	}
	assert.Equal(t, models.MemorialQuery{}, rows.LastQuery)
}

func TestGetUserMemorials_FiltersByOwner(t *testing.T) {
	rows := newFakeRowStore()
	svc := newMemorials(rows, newFakeBlobStore())
	ctx := context.Background()

	_, _ = svc.CreateMemorial(ctx, models.MemorialDraft{Name: "a", BirthYear: 1900, DeathYear: 1950}, "u1")
	_, _ = svc.CreateMemorial(ctx, models.MemorialDraft{Name: "b", BirthYear: 1900, DeathYear: 1950}, "u2")
	_, _ = svc.CreateMemorial(ctx, models.MemorialDraft{Name: "c", BirthYear: 1900, DeathYear: 1950}, "u1")

	mine, err := svc.GetUserMemorials(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "c", mine[0].Name)
	assert.Equal(t, "a", mine[1].Name)

	none, err := svc.GetUserMemorials(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListErrorsPropagate(t *testing.T) {
	rows := newFakeRowStore()
	rows.SelectErr = client.ErrUnavailable
	svc := newMemorials(rows, newFakeBlobStore())

	_, err := svc.GetAllMemorials(context.Background())
	assert.ErrorIs(t, err, client.ErrUnavailable)

	_, err = svc.GetUserMemorials(context.Background(), "u1")
	assert.ErrorIs(t, err, client.ErrUnavailable)
}

func TestGetMemorialByID_AbsentAndErrors(t *testing.T) {
	rows := newFakeRowStore()
	svc := newMemorials(rows, newFakeBlobStore())
	ctx := context.Background()

	m, err := svc.GetMemorialByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Equal(t, models.MemorialQuery{ID: "missing", Limit: 1}, rows.LastQuery)

	rows.SelectErr = client.NewAPIError(404, "", "not found")
	m, err = svc.GetMemorialByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, m)

	rows.SelectErr = errors.New("boom")
	m, err = svc.GetMemorialByID(ctx, "any")
	assert.EqualError(t, err, "boom")
	assert.Nil(t, m)
}

func TestGetMemorialByID_MalformedIDOverRESTIsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.abc", r.URL.Query().Get("id"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"22P02","message":"invalid input syntax for type uuid: \"abc\""}`))
	}))
	t.Cleanup(srv.Close)

	rc, err := client.NewRESTClient(srv.URL, "anon-key")
	require.NoError(t, err)
	svc := NewMemorialService(rc, rc, logging.NewNopLogger())

	m, err := svc.GetMemorialByID(context.Background(), "abc")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestCreateMemorial_ErrorPropagates(t *testing.T) {
	rows := newFakeRowStore()
	rows.InsertErr = client.NewAPIError(403, "42501", "new row violates row-level security policy")

	_, err := newMemorials(rows, newFakeBlobStore()).
		CreateMemorial(context.Background(), models.MemorialDraft{Name: "a", BirthYear: 1900, DeathYear: 1950}, "u1")
	assert.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestUserOwnsMemorial(t *testing.T) {
	rows := newFakeRowStore()
	svc := newMemorials(rows, newFakeBlobStore())
	ctx := context.Background()

	m, err := svc.CreateMemorial(ctx, models.MemorialDraft{Name: "a", BirthYear: 1900, DeathYear: 1950}, "u1")
	require.NoError(t, err)

	assert.True(t, svc.UserOwnsMemorial(ctx, m.ID, "u1"))
	assert.False(t, svc.UserOwnsMemorial(ctx, m.ID, "u2"))
	assert.False(t, svc.UserOwnsMemorial(ctx, "missing", "u1"))
	assert.False(t, svc.UserOwnsMemorial(ctx, m.ID, ""))
	assert.False(t, svc.UserOwnsMemorial(ctx, "", "u1"))

	rows.SelectErr = errors.New("network down")
	assert.False(t, svc.UserOwnsMemorial(ctx, m.ID, "u1"))
}

func TestNewImageFileName(t *testing.T) {
	fixFileName(t, 1700000000123, "abc123def456")
	assert.Equal(t, "memorial_1700000000123_abc123def456.png", NewImageFileName("image/png"))
	assert.Equal(t, "memorial_1700000000123_abc123def456.jpg", NewImageFileName("image/jpeg"))
}

func TestNewImageFileName_Unique(t *testing.T) {
	re := regexp.MustCompile(`^memorial_\d+_[0-9a-f]{12}\.jpg$`)
	a, b := NewImageFileName("image/jpeg"), NewImageFileName("image/jpeg")
	assert.Regexp(t, re, a)
	assert.NotEqual(t, a, b)
}

func TestUploadImageAs_SameNameTwiceFails(t *testing.T) {
	blobs := newFakeBlobStore()
	svc := newMemorials(newFakeRowStore(), blobs)
	ctx := context.Background()
	path := writeImage(t, pngHeader)

	url, err := svc.UploadImageAs(ctx, path, "memorial_1_x.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/memorial-images/memorial_1_x.png", url)
	assert.Equal(t, "image/png", blobs.types["memorial_1_x.png"])

	url, err = svc.UploadImageAs(ctx, path, "memorial_1_x.png")
	assert.ErrorIs(t, err, client.ErrConflict)
	assert.Empty(t, url)
}

func TestCreateWithImage_AttachesUploadedImage(t *testing.T) {
	fixFileName(t, 42, "aaaaaaaaaaaa")
	svc := newMemorials(newFakeRowStore(), newFakeBlobStore())

	res, err := svc.CreateWithImage(context.Background(),
		models.MemorialDraft{Name: "a", BirthYear: 1900, DeathYear: 1950}, writeImage(t, []byte("\xff\xd8\xff\xe0 jpeg")), "u1")
	require.NoError(t, err)
	assert.NoError(t, res.ImageWarning)
	assert.Equal(t, "https://cdn.test/memorial-images/memorial_42_aaaaaaaaaaaa.jpg", res.Memorial.ProfileImage)
}

func TestCreateWithImage_NameCollisionStillCreates(t *testing.T) {
	fixFileName(t, 42, "aaaaaaaaaaaa")
	rows := newFakeRowStore()
	svc := newMemorials(rows, newFakeBlobStore())
	ctx := context.Background()
	path := writeImage(t, pngHeader)
	draft := models.MemorialDraft{Name: "a", BirthYear: 1900, DeathYear: 1950}

	first, err := svc.CreateWithImage(ctx, draft, path, "u1")
	require.NoError(t, err)
	require.NoError(t, first.ImageWarning)

	second, err := svc.CreateWithImage(ctx, draft, path, "u1")
	require.NoError(t, err)
	assert.ErrorIs(t, second.ImageWarning, client.ErrConflict)
	require.NotNil(t, second.Memorial)
	assert.Empty(t, second.Memorial.ProfileImage)
	assert.Nil(t, rows.rows[1].ProfileImage)
}

func TestCreateWithImage_UnreadableFileIsWarning(t *testing.T) {
	svc := newMemorials(newFakeRowStore(), newFakeBlobStore())

	res, err := svc.CreateWithImage(context.Background(),
		models.MemorialDraft{Name: "a", BirthYear: 1900, DeathYear: 1950}, filepath.Join(t.TempDir(), "nope.jpg"), "u1")
	require.NoError(t, err)
	assert.Error(t, res.ImageWarning)
	assert.NotEmpty(t, res.Memorial.ID)
}

func TestCreateWithImage_NoImageNoWarning(t *testing.T) {
	blobs := newFakeBlobStore()
	svc := newMemorials(newFakeRowStore(), blobs)

	res, err := svc.CreateWithImage(context.Background(),
		models.MemorialDraft{Name: "a", BirthYear: 1900, DeathYear: 1950}, "", "u1")
	require.NoError(t, err)
	assert.NoError(t, res.ImageWarning)
	assert.Empty(t, blobs.objects)
}

func TestCreateWithImage_InsertErrorFails(t *testing.T) {
	rows := newFakeRowStore()
	rows.InsertErr = client.ErrUnavailable

	res, err := newMemorials(rows, newFakeBlobStore()).CreateWithImage(context.Background(),
		models.MemorialDraft{Name: "a", BirthYear: 1900, DeathYear: 1950}, "", "u1")
	assert.ErrorIs(t, err, client.ErrUnavailable)
	assert.Nil(t, res)
}
