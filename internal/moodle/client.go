// Package moodle is a small client for the Moodle mobile web-service API.
package moodle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pache/internal/httpx"
	"pache/internal/logger"
)

const (
	DefaultService = "moodle_mobile_app"

	tokenPath  = "/login/token.php"
	serverPath = "/webservice/rest/server.php"
)

type Client struct {
	BaseURL string
	Service string
	Token   string
	HTTP    *http.Client
	Retry   httpx.RetryConfig
}

// New returns a client for the Moodle site at baseURL. timeout bounds every
// single HTTP request; zero means 30s.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        16,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Service: DefaultService,
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
		Retry: httpx.DefaultRetryConfig(),
	}
}

// WithToken returns a copy of c authenticated with token. The copy shares the
// HTTP session with c.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

// Close releases the pooled connections of the HTTP session.
func (c *Client) Close() error {
	c.HTTP.CloseIdleConnections()
	return nil
}

type tokenResponse struct {
	Token     string `json:"token"`
	Error     string `json:"error"`
	ErrorCode string `json:"errorcode"`
}

// Login exchanges credentials for a web-service token and keeps it on c.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	const op = "login"

	service := c.Service
	if service == "" {
		service = DefaultService
	}
	form := url.Values{
		"username": {username},
		"password": {password},
		"service":  {service},
	}

	var tr tokenResponse
	if err := c.postJSON(ctx, op, c.BaseURL+tokenPath, form, &tr); err != nil {
		return "", err
	}
	if tr.Error != "" || tr.ErrorCode != "" {
		return "", &ProtocolError{Op: op, Code: tr.ErrorCode, Message: tr.Error}
	}
	if tr.Token == "" {
		return "", &ProtocolError{Op: op, Message: "response has no token"}
	}

	c.Token = tr.Token
	logger.Named("moodle").Debug().Str("service", service).Msg("logged in")
	return tr.Token, nil
}

// exception is the envelope Moodle returns (with HTTP 200) when a
// web-service function fails.
type exception struct {
	Exception string `json:"exception"`
	ErrorCode string `json:"errorcode"`
	Message   string `json:"message"`
}

// Call invokes the web-service function fn and decodes the JSON result into out.
func (c *Client) Call(ctx context.Context, fn string, params Params, out any) error {
	if c.Token == "" {
		return &ProtocolError{Op: fn, Message: "missing token (call Login first)"}
	}

	form := EncodeParams(params)
	form.Set("wstoken", c.Token)
	form.Set("wsfunction", fn)
	form.Set("moodlewsrestformat", "json")

	logger.Named("moodle").Debug().Str("wsfunction", fn).Int("params", len(params)).Msg("call")
	return c.postJSON(ctx, fn, c.BaseURL+serverPath, form, out)
}

func (c *Client) postJSON(ctx context.Context, op, endpoint string, form url.Values, out any) error {
	var raw json.RawMessage
	err := httpx.DoJSON(ctx, c.HTTP, httpx.PostForm(endpoint, form), &raw, c.Retry)
	if err != nil {
		var je *httpx.JSONError
		if errors.As(err, &je) {
			return &ProtocolError{Op: op, Err: je}
		}
		return &TransportError{Op: op, Err: err}
	}

	// Moodle reports web-service failures with HTTP 200 and an envelope
	if len(raw) > 0 && raw[0] == '{' {
		var ex exception
		if json.Unmarshal(raw, &ex) == nil && ex.Exception != "" {
			return &ProtocolError{Op: op, Code: ex.ErrorCode, Message: ex.Message}
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ProtocolError{Op: op, Err: &httpx.JSONError{Err: err, Body: raw}}
	}
	return nil
}

// errMissing builds the ProtocolError for a response lacking a required key.
func errMissing(op, key string) error {
	return &ProtocolError{Op: op, Message: "response has no " + key, Err: errors.New("missing key " + key)}
}
