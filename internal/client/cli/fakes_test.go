package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/memoria/internal/client/models"
	"github.com/dmitrijs2005/memoria/internal/client/services"
	"github.com/dmitrijs2005/memoria/internal/client/session"
	"github.com/dmitrijs2005/memoria/internal/client/theme"
	"github.com/dmitrijs2005/memoria/internal/logging"
)

type fakeAuth struct {
	current *models.User

	loginUser *models.User
	loginErr  error
	LastEmail string
	LastPass  string
	LastName  string

	registerCalls int
	loginCalls    int
	logoutCalls   int
}

func (f *fakeAuth) CurrentUser(ctx context.Context) (*models.User, bool) {
	return f.current, f.current != nil
}

func (f *fakeAuth) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	f.registerCalls++
	f.LastEmail, f.LastPass, f.LastName = email, password, name
	return &models.User{ID: "u1", Email: email, Name: name}, nil
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*models.User, error) {
	f.loginCalls++
	f.LastEmail, f.LastPass = email, password
	return f.loginUser, f.loginErr
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.logoutCalls++
	return errors.New("network down")
}

func (f *fakeAuth) OnAuthStateChange(fn func(*models.User)) func() { return func() {} }

type fakeMemorials struct {
	all     []*models.Memorial
	byID    map[string]*models.Memorial
	getErr  error
	warning error

	LastDraft     models.MemorialDraft
	LastImagePath string
	LastUserID    string
	createCalls   int
}

func (f *fakeMemorials) UploadImage(ctx context.Context, localPath string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeMemorials) UploadImageAs(ctx context.Context, localPath, fileName string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeMemorials) GetAllMemorials(ctx context.Context) ([]*models.Memorial, error) {
	return f.all, f.getErr
}

func (f *fakeMemorials) GetUserMemorials(ctx context.Context, userID string) ([]*models.Memorial, error) {
	f.LastUserID = userID
	var out []*models.Memorial
	for _, m := range f.all {
		if m.CreatedBy == userID {
			out = append(out, m)
		}
	}
	return out, f.getErr
}

func (f *fakeMemorials) GetMemorialByID(ctx context.Context, id string) (*models.Memorial, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byID[id], nil
}

func (f *fakeMemorials) CreateMemorial(ctx context.Context, draft models.MemorialDraft, userID string) (*models.Memorial, error) {
	return nil, errors.New("not used")
}

func (f *fakeMemorials) CreateWithImage(ctx context.Context, draft models.MemorialDraft, imagePath, userID string) (*services.CreateResult, error) {
	f.createCalls++
	f.LastDraft, f.LastImagePath, f.LastUserID = draft, imagePath, userID
	m := &models.Memorial{ID: "m-new", Name: draft.Name, BirthYear: draft.BirthYear, DeathYear: draft.DeathYear, CreatedBy: userID}
	return &services.CreateResult{Memorial: m, ImageWarning: f.warning}, nil
}

func (f *fakeMemorials) UserOwnsMemorial(ctx context.Context, memorialID, userID string) bool {
	m := f.byID[memorialID]
	return m != nil && m.CreatedBy == userID
}

type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memKV) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memKV) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = value
	return nil
}

// captureOutput swaps the output seams and returns everything printed.
func captureOutput(t *testing.T) *strings.Builder {
	t.Helper()
	var sb strings.Builder
	origPrintln, origPrint := printlnFn, printFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&sb, a...) }
	printFn = func(a ...any) (int, error) { return fmt.Fprint(&sb, a...) }
	t.Cleanup(func() { printlnFn, printFn = origPrintln, origPrint })
	return &sb
}

// plainInput makes password prompts read from the line reader.
func plainInput(t *testing.T) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })
}

func newTestApp(t *testing.T, auth *fakeAuth, ms *fakeMemorials, input ...string) (*App, *memKV) {
	t.Helper()
	plainInput(t)

	logger := logging.NewNopLogger()
	store := session.New(auth, logger)
	store.Start(context.Background())
	kv := &memKV{}

	in := strings.NewReader(strings.Join(input, "\n") + "\n")
	return NewApp(Deps{
		Session:   store,
		Memorials: ms,
		Theme:     theme.NewStore(kv, logger),
		Logger:    logger,
		In:        in,
		Out:       io.Discard,
	}), kv
}
