package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/memoria/internal/client/client"
	"github.com/dmitrijs2005/memoria/internal/client/models"
)

// fakeAuthClient implements client.AuthClient.
type fakeAuthClient struct {
	SignUpRet  *models.ProviderUser
	SignUpErr  error
	SignInRet  *models.ProviderUser
	SignInErr  error
	SignOutErr error
	GetUserRet *models.ProviderUser
	GetUserErr error

	LastSignUpEmail    string
	LastSignUpPassword string
	LastSignUpMetadata map[string]any
	LastSignInEmail    string
	SignOutCalls       int

	listener func(models.AuthEvent, *models.ProviderSession)
}

func (f *fakeAuthClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.ProviderUser, error) {
	f.LastSignUpEmail = email
	f.LastSignUpPassword = password
	f.LastSignUpMetadata = metadata
	return f.SignUpRet, f.SignUpErr
}

func (f *fakeAuthClient) SignInWithPassword(ctx context.Context, email, password string) (*models.ProviderUser, error) {
	f.LastSignInEmail = email
	return f.SignInRet, f.SignInErr
}

func (f *fakeAuthClient) SignOut(ctx context.Context) error {
	f.SignOutCalls++
	return f.SignOutErr
}

func (f *fakeAuthClient) GetUser(ctx context.Context) (*models.ProviderUser, error) {
	return f.GetUserRet, f.GetUserErr
}

func (f *fakeAuthClient) OnAuthStateChange(fn func(models.AuthEvent, *models.ProviderSession)) func() {
	f.listener = fn
	return func() { f.listener = nil }
}

func (f *fakeAuthClient) emit(e models.AuthEvent, s *models.ProviderSession) {
	if f.listener != nil {
		f.listener(e, s)
	}
}

// fakeRowStore is an in-memory memorials table. Every insert gets the next
// id and a created_at one minute after the previous one.
type fakeRowStore struct {
	mu        sync.Mutex
	rows      []models.MemorialRow
	seq       int
	base      time.Time
	SelectErr error
	InsertErr error

	LastQuery models.MemorialQuery
}

func newFakeRowStore() *fakeRowStore {
	return &fakeRowStore{base: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeRowStore) SelectMemorials(ctx context.Context, q models.MemorialQuery) ([]models.MemorialRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastQuery = q
	if f.SelectErr != nil {
		return nil, f.SelectErr
	}

	out := []models.MemorialRow{}
	for _, r := range f.rows {
		if q.ID != "" && r.ID != q.ID {
			continue
		}
		if q.CreatedBy != "" && r.CreatedBy != q.CreatedBy {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeRowStore) InsertMemorial(ctx context.Context, row models.MemorialRow) (*models.MemorialRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InsertErr != nil {
		return nil, f.InsertErr
	}

	f.seq++
	row.ID = fmt.Sprintf("m%d", f.seq)
	row.CreatedAt = f.base.Add(time.Duration(f.seq) * time.Minute).Format(time.RFC3339Nano)
	f.rows = append(f.rows, row)
	return &row, nil
}

// fakeBlobStore never overwrites, like the real bucket.
type fakeBlobStore struct {
	objects   map[string][]byte
	types     map[string]string
	UploadErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeBlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if f.UploadErr != nil {
		return f.UploadErr
	}
	if _, ok := f.objects[key]; ok {
		return client.NewAPIError(409, "Duplicate", "The resource already exists")
	}
	f.objects[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeBlobStore) PublicURL(key string) string {
	return "https://cdn.test/memorial-images/" + key
}
