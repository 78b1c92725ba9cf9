package rest

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/maximthomas/legacybridge/pkg/auth"
	"golang.org/x/text/encoding/htmlindex"
)

// Response is the normalized result of a legacy API call. Body is set
// only for a 200 response; error bodies are never read.
type Response struct {
	Code int
	Body string
}

// RequestError wraps a transport level failure together with the
// attempted request.
type RequestError struct {
	Method string
	URI    string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URI, e.Err)
}

func (e *RequestError) Cause() error  { return e.Err }
func (e *RequestError) Unwrap() error { return e.Err }

// Client issues authenticated requests to the legacy API. The strategy
// is supplied per call because signed token auth binds its subject to
// the identity being looked up.
type Client struct {
	hc *http.Client
}

func NewClient(hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{hc: hc}
}

func (c *Client) Get(uri string, strategy auth.Strategy) (Response, error) {
	req, err := http.NewRequest(http.MethodGet, uri, nil)
	if err != nil {
		return Response{}, &RequestError{Method: http.MethodGet, URI: uri, Err: err}
	}
	return c.execute(req, strategy)
}

func (c *Client) Post(uri, jsonBody string, strategy auth.Strategy) (Response, error) {
	req, err := http.NewRequest(http.MethodPost, uri, strings.NewReader(jsonBody))
	if err != nil {
		return Response{}, &RequestError{Method: http.MethodPost, URI: uri, Err: err}
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	return c.execute(req, strategy)
}

func (c *Client) execute(req *http.Request, strategy auth.Strategy) (Response, error) {
	req.Header.Set("Accept", "application/json")
	strategy.Configure(req)

	resp, err := c.hc.Do(req)
	if err != nil {
		return Response{}, &RequestError{Method: req.Method, URI: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{Code: resp.StatusCode}, nil
	}

	body, err := readBody(resp)
	if err != nil {
		return Response{}, &RequestError{Method: req.Method, URI: req.URL.String(), Err: err}
	}
	return Response{Code: resp.StatusCode, Body: body}, nil
}

// readBody reads the entity using the charset declared in Content-Type,
// falling back to UTF-8.
func readBody(resp *http.Response) (string, error) {
	var reader io.Reader = resp.Body
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil {
		if cs := params["charset"]; cs != "" {
			if enc, encErr := htmlindex.Get(cs); encErr == nil {
				reader = enc.NewDecoder().Reader(resp.Body)
			}
		}
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
