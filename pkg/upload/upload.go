// Package upload sends exported files to an echo endpoint (httpbin's
// POST /post) and checks that the echoed content matches the local file.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sternrassler/swapi-export/pkg/client"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Defaults for Client.
const (
	DefaultBaseURL  = "http://httpbin.org"
	DefaultEndpoint = "post"
	DefaultTimeout  = 30 * time.Second

	// FormField is the multipart field carrying the file.
	FormField = "file"
)

// ErrIntegrity is matched by *IntegrityError.
var ErrIntegrity = errors.New("upload integrity check failed")

// IntegrityError reports an echo that differs from the local file, both
// with line breaks removed.
type IntegrityError struct {
	Local  string
	Remote string
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("content received by remote differs: Local: %s vs Remote: %s", e.Local, e.Remote)
}

// Is lets errors.Is match ErrIntegrity.
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// Client uploads files read from FS.
type Client struct {
	BaseURL    string
	Endpoint   string
	HTTPClient *http.Client
	FS         afero.Fs

	logger zerolog.Logger
}

// New returns a Client for baseURL/endpoint reading from the OS filesystem.
func New(baseURL, endpoint string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		BaseURL:    baseURL,
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		FS:         afero.NewOsFs(),
		logger:     log.With().Str("component", "uploader").Logger(),
	}
}

// URL returns the upload target.
func (c *Client) URL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(c.Endpoint, "/")
}

// echo is the part of the httpbin response the integrity check reads.
type echo struct {
	Files map[string]string `json:"files"`
}

// SendFile uploads path as multipart form field "file" and verifies the
// echoed content. A non-2xx status fails with *client.TransportError, a
// differing echo with *IntegrityError.
func (c *Client) SendFile(ctx context.Context, path string) error {
	content, err := afero.ReadFile(c.FS, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	part, err := form.CreateFormFile(FormField, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	url := c.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", url).Str("path", path).Int("bytes", len(content)).Msg("Uploading file")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &client.TransportError{
			Method:     http.MethodPost,
			URL:        url,
			ErrorClass: client.ErrorClassNetwork,
			Message:    "upload failed",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &client.TransportError{
			Method:     http.MethodPost,
			URL:        url,
			StatusCode: resp.StatusCode,
			ErrorClass: client.ErrorClassNetwork,
			Message:    "read upload response",
			Err:        err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().Str("url", url).Int("status_code", resp.StatusCode).Msg("Upload rejected")
		return &client.TransportError{
			Method:     http.MethodPost,
			URL:        url,
			StatusCode: resp.StatusCode,
			ErrorClass: client.ClassifyStatus(resp.StatusCode),
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	var e echo
	if err := json.Unmarshal(respBody, &e); err != nil {
		return fmt.Errorf("%w: %v", client.ErrInvalidJSON, err)
	}

	local := stripLineBreaks(string(content))
	remote := stripLineBreaks(e.Files[FormField])
	if local != remote {
		c.logger.Error().Str("url", url).Str("path", path).Msg("Upload integrity check failed")
		return &IntegrityError{Local: local, Remote: remote}
	}

	c.logger.Info().Str("url", url).Str("path", path).Msg("File successfully uploaded")
	return nil
}

func stripLineBreaks(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
