package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
	"github.com/dmitrijs2005/fotogen/internal/common"
	"github.com/dmitrijs2005/fotogen/internal/logging"
)

const (
	pathCheckModel = "/integration/check-user-model-available"
	pathGenerate   = "/integration/generate-photo"
	pathUpload     = "/files/upload"
	pathTrain      = "/integration/train-model"

	defaultImageFormat = "jpg"
	maxErrorBody       = 4 << 10
)

// envelope is the response wrapper every JSON endpoint uses.
type envelope struct {
	IsSuccess bool            `json:"isSuccess"`
	Message   string          `json:"message"`
	ErrorCode ErrorCode       `json:"errorCode"`
	Data      json.RawMessage `json:"data"`
}

type generateRequest struct {
	ModelName *string `json:"ModelName"`
	Prompt    string  `json:"Prompt"`
}

type generateData struct {
	Base64Image  string `json:"base64Image"`
	OutputFormat string `json:"outputFormat"`
}

type trainRequest struct {
	ImageURL string `json:"imageUrl"`
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
}

// NewHTTPClient talks to the API rooted at baseURL (e.g. http://host/api).
// tokens may be nil, in which case requests are unauthenticated.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) *HTTPClient {
	if log == nil {
		log = logging.Nop{}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// token never fails: an unavailable token degrades to an anonymous request.
func (c *HTTPClient) token(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		c.log.Warn(ctx, "token unavailable, sending request unauthenticated", "error", err)
		return ""
	}
	return tok
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, string, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, "", err
	}

	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.token(ctx); tok != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+tok)
	}
	return req, reqID, nil
}

// do sends req and returns the status with the body (capped for errors).
func (c *HTTPClient) do(req *http.Request, reqID string) (int, []byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error(req.Context(), "request failed", "request_id", reqID, "method", req.Method, "path", req.URL.Path, "error", err)
		return 0, nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var body []byte
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		body, err = io.ReadAll(resp.Body)
	} else {
		body, err = io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	}
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}

	c.log.Debug(req.Context(), "request done",
		"request_id", reqID,
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)
	return resp.StatusCode, body, nil
}

// decode parses an envelope. A body that is not an envelope yields a zero
// envelope carrying the raw text as its message.
func decode(body []byte) envelope {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		env = envelope{Message: strings.TrimSpace(string(body))}
	}
	return env
}

func statusError(sentinel error, status int, env envelope) error {
	var cause error
	switch status {
	case http.StatusUnauthorized:
		cause = common.ErrorUnauthorized
	case http.StatusNotFound:
		cause = common.ErrorNotFound
	}
	msg := env.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	if cause != nil {
		return fmt.Errorf("%w: status %d: %s: %w", sentinel, status, msg, cause)
	}
	return fmt.Errorf("%w: status %d: %s", sentinel, status, msg)
}

func (c *HTTPClient) CheckModelAvailable(ctx context.Context, modelName string) (bool, error) {
	var q url.Values
	if modelName != "" {
		q = url.Values{"modelName": []string{modelName}}
	}
	req, reqID, err := c.newRequest(ctx, http.MethodGet, pathCheckModel, q, nil, "")
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrModelCheckFailed, err)
	}

	status, body, err := c.do(req, reqID)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrModelCheckFailed, err)
	}

	switch {
	case status == http.StatusOK:
		return true, nil
	case status == http.StatusNotFound:
		return false, nil
	default:
		return false, statusError(ErrModelCheckFailed, status, decode(body))
	}
}

func (c *HTTPClient) GeneratePhoto(ctx context.Context, modelName *string, prompt string) (*models.GeneratedImage, error) {
	payload, err := json.Marshal(generateRequest{ModelName: modelName, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	req, reqID, err := c.newRequest(ctx, http.MethodPost, pathGenerate, nil, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	status, body, err := c.do(req, reqID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	env := decode(body)
	if status == http.StatusTooManyRequests || env.ErrorCode == CodeReachGenerationLimitation {
		return nil, newQuotaError(QuotaGeneration, env.Message)
	}
	if status < 200 || status >= 300 {
		return nil, statusError(ErrGenerationFailed, status, env)
	}
	if !env.IsSuccess {
		return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, env.Message)
	}

	var data generateData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: decode data: %w", ErrGenerationFailed, err)
	}
	img, err := base64.StdEncoding.DecodeString(data.Base64Image)
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %w", ErrGenerationFailed, err)
	}
	if len(img) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrGenerationFailed)
	}
	format := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(data.OutputFormat)), ".")
	if format == "" {
		format = defaultImageFormat
	}
	return &models.GeneratedImage{Data: img, Format: format}, nil
}

func (c *HTTPClient) UploadArchive(ctx context.Context, archive *models.TrainingArchive) (string, error) {
	if archive == nil || len(archive.Data) == 0 {
		return "", fmt.Errorf("%w: empty archive", ErrUploadFailed)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, archive.Name))
	h.Set("Content-Type", "application/zip")
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	if _, err := part.Write(archive.Data); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	req, reqID, err := c.newRequest(ctx, http.MethodPost, pathUpload, nil, &buf, mw.FormDataContentType())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	status, body, err := c.do(req, reqID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	env := decode(body)
	if status < 200 || status >= 300 {
		return "", statusError(ErrUploadFailed, status, env)
	}
	if !env.IsSuccess {
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, env.Message)
	}

	var location string
	if err := json.Unmarshal(env.Data, &location); err != nil || location == "" {
		return "", fmt.Errorf("%w: response carries no url", ErrUploadFailed)
	}
	c.log.Info(ctx, "archive uploaded", "request_id", reqID, "archive", archive.Name, "model_id", archive.ModelID)
	return location, nil
}

func (c *HTTPClient) TrainModel(ctx context.Context, imageURL string) (string, error) {
	payload, err := json.Marshal(trainRequest{ImageURL: imageURL})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTrainingFailed, err)
	}
	req, reqID, err := c.newRequest(ctx, http.MethodPost, pathTrain, nil, bytes.NewReader(payload), "application/json")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTrainingFailed, err)
	}

	status, body, err := c.do(req, reqID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTrainingFailed, err)
	}

	env := decode(body)
	if env.ErrorCode == CodeReachTrainingLimitation {
		return "", newQuotaError(QuotaTraining, env.Message)
	}
	if status < 200 || status >= 300 {
		return "", statusError(ErrTrainingFailed, status, env)
	}
	if !env.IsSuccess {
		return "", fmt.Errorf("%w: %s", ErrTrainingFailed, env.Message)
	}

	return dataString(env.Data), nil
}

// dataString reads a string or numeric data field; anything else is "".
func dataString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
