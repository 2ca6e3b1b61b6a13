package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fotogen/internal/client/client"
	"github.com/dmitrijs2005/fotogen/internal/client/config"
	"github.com/dmitrijs2005/fotogen/internal/client/identity"
	"github.com/dmitrijs2005/fotogen/internal/client/models"
	"github.com/dmitrijs2005/fotogen/internal/client/session"
	"github.com/dmitrijs2005/fotogen/internal/logging"
)

type fakeClient struct {
	mu sync.Mutex

	available  map[string]bool
	checkErr   error
	checkCalls []string
	genImage   *models.GeneratedImage
	genErr     error
	uploadURL  string
	uploadErr  error
	trainID    string
	trainErr   error
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) CheckModelAvailable(_ context.Context, modelName string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkCalls = append(f.checkCalls, modelName)
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.available[modelName], nil
}

func (f *fakeClient) GeneratePhoto(context.Context, *string, string) (*models.GeneratedImage, error) {
	return f.genImage, f.genErr
}

func (f *fakeClient) UploadArchive(context.Context, *models.TrainingArchive) (string, error) {
	return f.uploadURL, f.uploadErr
}

func (f *fakeClient) TrainModel(context.Context, string) (string, error) {
	return f.trainID, f.trainErr
}

func (f *fakeClient) Close() error { return nil }

type fakeProvider struct {
	accounts  []models.Identity
	signIn    models.Identity
	signInErr error
}

var _ identity.Provider = (*fakeProvider)(nil)

func (p *fakeProvider) Accounts(context.Context) ([]models.Identity, error) {
	return p.accounts, nil
}

func (p *fakeProvider) AcquireTokenSilent(context.Context, models.Identity) (string, error) {
	return "token", nil
}

func (p *fakeProvider) SignIn(context.Context) (*models.Identity, error) {
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	id := p.signIn
	p.accounts = []models.Identity{id}
	return &id, nil
}

func (p *fakeProvider) SignOut(context.Context) error {
	p.accounts = nil
	return nil
}

var alice = models.Identity{ID: "oid-alice", HomeAccountID: "home-alice", Name: "Alice", Username: "alice@example.com"}

// newTestApp wires an App over a temp SQLite file, an in-memory session
// store and the given fakes. input feeds prompts read by commands.
func newTestApp(t *testing.T, fc *fakeClient, fp *fakeProvider, input string) (*App, *bytes.Buffer) {
	t.Helper()

	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.OutputDir = t.TempDir()
	cfg.MaxBatchBytes = 1024

	out := &bytes.Buffer{}
	app := wire(cfg, logging.Nop{}, db, client.NewRepositories(db), wiring{
		provider:  fp,
		kv:        session.NewMemoryKV(),
		newClient: func(client.TokenSource) client.Client { return fc },
		in:        strings.NewReader(input),
		out:       out,
	})
	return app, out
}
