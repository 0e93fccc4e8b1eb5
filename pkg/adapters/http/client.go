package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
)

// Client implements ports.Driver against a Server. Each client is its own
// session: Release forgets only the handles it created.
type Client struct {
	base    string
	http    *http.Client
	session string
}

var _ ports.Driver = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.http = c
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		base:    strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		session: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) FindElement(ctx context.Context, locator by.By) (ports.Element, error) {
	return c.findOne(ctx, "", locator)
}

func (c *Client) FindElements(ctx context.Context, locator by.By) ([]ports.Element, error) {
	return c.findAll(ctx, "", locator)
}

// Release asks the server to forget every element handle of this client.
func (c *Client) Release(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/elements", nil, nil)
}

func (c *Client) findOne(ctx context.Context, prefix string, locator by.By) (ports.Element, error) {
	var id string
	body := LocatorRequest{Using: string(locator.Strategy()), Value: locator.Value()}
	if err := c.do(ctx, http.MethodPost, prefix+"/element", body, &id); err != nil {
		return nil, err
	}
	return &remoteElement{client: c, id: id}, nil
}

func (c *Client) findAll(ctx context.Context, prefix string, locator by.By) ([]ports.Element, error) {
	var ids []string
	body := LocatorRequest{Using: string(locator.Strategy()), Value: locator.Value()}
	if err := c.do(ctx, http.MethodPost, prefix+"/elements", body, &ids); err != nil {
		return nil, err
	}
	elems := make([]ports.Element, len(ids))
	for i, id := range ids {
		elems[i] = &remoteElement{client: c, id: id}
	}
	return elems, nil
}

// do sends body as JSON and decodes the "value" of the response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(SessionHeader, c.session)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			return &RemoteError{Code: CodeUnknown, Message: fmt.Sprintf("%s %s: %s", method, path, resp.Status), Status: resp.StatusCode}
		}
		return &RemoteError{Code: e.Error, Message: e.Message, Status: resp.StatusCode}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	wrapped := ValueResponse{Value: out}
	if err := json.NewDecoder(resp.Body).Decode(&wrapped); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type remoteElement struct {
	client *Client
	id     string
}

func (e *remoteElement) path(suffix string) string {
	return "/element/" + url.PathEscape(e.id) + suffix
}

func (e *remoteElement) FindElement(ctx context.Context, locator by.By) (ports.Element, error) {
	return e.client.findOne(ctx, e.path(""), locator)
}

func (e *remoteElement) FindElements(ctx context.Context, locator by.By) ([]ports.Element, error) {
	return e.client.findAll(ctx, e.path(""), locator)
}

func (e *remoteElement) Click(ctx context.Context) error {
	return e.client.do(ctx, http.MethodPost, e.path("/click"), nil, nil)
}

func (e *remoteElement) Clear(ctx context.Context) error {
	return e.client.do(ctx, http.MethodPost, e.path("/clear"), nil, nil)
}

func (e *remoteElement) Submit(ctx context.Context) error {
	return e.client.do(ctx, http.MethodPost, e.path("/submit"), nil, nil)
}

func (e *remoteElement) SendKeys(ctx context.Context, keys ...string) error {
	return e.client.do(ctx, http.MethodPost, e.path("/value"), KeysRequest{Text: keys}, nil)
}

func (e *remoteElement) TagName(ctx context.Context) (string, error) {
	return get[string](ctx, e, "/name")
}

func (e *remoteElement) Attribute(ctx context.Context, name string) (string, error) {
	return get[string](ctx, e, "/attribute/"+url.PathEscape(name))
}

func (e *remoteElement) Text(ctx context.Context) (string, error) {
	return get[string](ctx, e, "/text")
}

func (e *remoteElement) CSSValue(ctx context.Context, property string) (string, error) {
	return get[string](ctx, e, "/css/"+url.PathEscape(property))
}

func (e *remoteElement) Location(ctx context.Context) (domain.Point, error) {
	return get[domain.Point](ctx, e, "/location")
}

func (e *remoteElement) Size(ctx context.Context) (domain.Dimension, error) {
	return get[domain.Dimension](ctx, e, "/size")
}

func (e *remoteElement) IsSelected(ctx context.Context) (bool, error) {
	return get[bool](ctx, e, "/selected")
}

func (e *remoteElement) IsEnabled(ctx context.Context) (bool, error) {
	return get[bool](ctx, e, "/enabled")
}

func (e *remoteElement) IsDisplayed(ctx context.Context) (bool, error) {
	return get[bool](ctx, e, "/displayed")
}

func get[T any](ctx context.Context, e *remoteElement, suffix string) (T, error) {
	var v T
	err := e.client.do(ctx, http.MethodGet, e.path(suffix), nil, &v)
	return v, err
}
