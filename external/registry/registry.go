package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/raksh/borewell-capture/schema"
)

const (
	logPrefix  = "registry"
	defaultURL = "http://localhost:8000"
	borewells  = "/borewells/"
)

var (
	errEmptyResult = fmt.Errorf("empty registration result")
)

// APIError is an unsuccessful registry response. Detail holds the server's
// `detail` field when it is a plain string.
type APIError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("registry responded %d: %s", e.StatusCode, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("registry responded %d: %s", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("registry responded %d", e.StatusCode)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// UserDetail is the message the registry wants shown to the user, if any.
func (e *APIError) UserDetail() string {
	return e.Detail
}

type Client struct {
	url    string
	client *http.Client
}

// New returns a registry client. An empty url uses the local default and a
// nil httpClient uses http.DefaultClient.
func New(url string, httpClient *http.Client) *Client {
	u := defaultURL
	if url != "" {
		u = url
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		url:    strings.TrimRight(u, "/"),
		client: httpClient,
	}
}

// Register posts the payload once. There is no retry.
func (c *Client) Register(ctx context.Context, payload schema.RegistrationPayload) (*schema.RegistrationResult, error) {
	body, err := json.Marshal(payload)
	if nil != err {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.url+borewells, bytes.NewReader(body))
	if nil != err {
		return nil, err
	}
	req = req.WithContext(ctx)

	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	logger := log.WithFields(log.Fields{
		"prefix":     logPrefix,
		"request_id": requestID,
	})
	logger.Debug("register borewell")

	resp, err := c.client.Do(req)
	if nil != err {
		logger.WithError(err).Warn("registry request failed")
		return nil, err
	}
	defer resp.Body.Close()

	d, err := ioutil.ReadAll(resp.Body)
	if nil != err {
		return nil, &APIError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(d),
		}
		logger.WithField("status", resp.StatusCode).Info(apiErr.Error())
		return nil, apiErr
	}

	var result *schema.RegistrationResult
	if err := json.Unmarshal(d, &result); nil != err {
		return nil, &APIError{StatusCode: resp.StatusCode, Err: err}
	}

	if result == nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Err: errEmptyResult}
	}

	logger.WithField("id", result.ID).Debug("borewell registered")
	return result, nil
}

// parseDetail returns the body's `detail` only when it is a JSON string.
// Structured details, such as validation error lists, are not shown.
func parseDetail(body []byte) string {
	var r struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &r); nil != err || len(r.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(r.Detail, &detail); nil != err {
		return ""
	}
	return detail
}
