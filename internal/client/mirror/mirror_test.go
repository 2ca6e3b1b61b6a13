package mirror

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
)

func testConfig(endpoint string) Config {
	return Config{
		Bucket:    "fotogen",
		Region:    "us-east-1",
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	}
}

func TestStorageKey(t *testing.T) {
	ts := time.Date(2025, time.March, 7, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "trainings/2025/03/07/model-1-abc.zip", StorageKey("model-1-abc.zip", ts))
}

func TestNewS3Mirror_Disabled(t *testing.T) {
	_, err := NewS3Mirror(context.Background(), Config{}, nil)
	require.ErrorIs(t, err, ErrDisabled)
}

func TestNewS3Mirror_LoadConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Mirror(context.Background(), testConfig("http://127.0.0.1:9000"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load aws config")
}

func TestStore_UploadsThroughPresignedURL(t *testing.T) {
	var (
		mu      sync.Mutex
		gotPath string
		gotBody string
		gotCT   string
		gotSig  bool
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		b, _ := io.ReadAll(r.Body)
		gotPath = r.URL.Path
		gotBody = string(b)
		gotCT = r.Header.Get("Content-Type")
		gotSig = r.URL.Query().Get("X-Amz-Signature") != ""
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m, err := NewS3Mirror(context.Background(), testConfig(srv.URL), srv.Client())
	require.NoError(t, err)
	m.now = func() time.Time { return time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC) }

	key, err := m.Store(context.Background(), &models.TrainingArchive{Name: "model-5-xyz.zip", Data: []byte("zipdata")})
	require.NoError(t, err)
	assert.Equal(t, "trainings/2025/01/02/model-5-xyz.zip", key)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, strings.HasSuffix(gotPath, "/fotogen/trainings/2025/01/02/model-5-xyz.zip"), gotPath)
	assert.Equal(t, "zipdata", gotBody)
	assert.Equal(t, "application/zip", gotCT)
	assert.True(t, gotSig)
}

func TestStore_UploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "AccessDenied", http.StatusForbidden)
	}))
	defer srv.Close()

	m, err := NewS3Mirror(context.Background(), testConfig(srv.URL), srv.Client())
	require.NoError(t, err)

	_, err = m.Store(context.Background(), &models.TrainingArchive{Name: "a.zip", Data: []byte("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
