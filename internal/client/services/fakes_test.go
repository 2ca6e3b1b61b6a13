package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fotogen/internal/client/client"
	"github.com/dmitrijs2005/fotogen/internal/client/models"
)

// ---- fake backend ----

type checkCall struct{ modelName string }

type fakeClient struct {
	mu sync.Mutex

	available    map[string]bool
	checkErr     error
	checkCalls   []checkCall
	genImage     *models.GeneratedImage
	genErr       error
	genModelName []*string
	uploadURL    string
	uploadErr    error
	uploads      []*models.TrainingArchive
	trainID      string
	trainErr     error
	trainCalls   []string

	// block, when set, holds UploadArchive until closed.
	block chan struct{}
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) CheckModelAvailable(_ context.Context, modelName string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkCalls = append(f.checkCalls, checkCall{modelName: modelName})
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.available[modelName], nil
}

func (f *fakeClient) GeneratePhoto(_ context.Context, modelName *string, _ string) (*models.GeneratedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genModelName = append(f.genModelName, modelName)
	return f.genImage, f.genErr
}

func (f *fakeClient) UploadArchive(_ context.Context, a *models.TrainingArchive) (string, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, a)
	return f.uploadURL, f.uploadErr
}

func (f *fakeClient) TrainModel(_ context.Context, imageURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trainCalls = append(f.trainCalls, imageURL)
	return f.trainID, f.trainErr
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) checks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.checkCalls)
}

// ---- fake identity provider ----

type fakeProvider struct {
	accounts    []models.Identity
	accountsErr error
	signInID    *models.Identity
	signInErr   error
	token       string
	tokenErr    error
	signOuts    int
}

func (p *fakeProvider) Accounts(context.Context) ([]models.Identity, error) {
	return p.accounts, p.accountsErr
}

func (p *fakeProvider) AcquireTokenSilent(context.Context, models.Identity) (string, error) {
	return p.token, p.tokenErr
}

func (p *fakeProvider) SignIn(context.Context) (*models.Identity, error) {
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	p.accounts = append(p.accounts, *p.signInID)
	return p.signInID, nil
}

func (p *fakeProvider) SignOut(context.Context) error {
	p.signOuts++
	p.accounts = nil
	return nil
}

// ---- fake navigator ----

type recordingNav struct {
	current string
	history []string
	fail    int
}

func (n *recordingNav) Navigate(_ context.Context, path string) error {
	if n.fail > 0 {
		n.fail--
		return errors.New("navigation interrupted")
	}
	n.current = path
	n.history = append(n.history, path)
	return nil
}

func (n *recordingNav) Current() string { return n.current }

// ---- db ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
