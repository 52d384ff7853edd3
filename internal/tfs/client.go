package tfs

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"net/url"
	"os"
	"strings"
	"time"

	ntlmssp "github.com/Azure/go-ntlmssp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/voice4net/versync/internal/config"
)

const apiVersion = "4.1"

// retryLogger implements the retryablehttp.LeveledLogger interface.
// Retries are narrated at warning level only; the retry library's info and
// debug chatter is dropped.
type retryLogger struct{}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	fmt.Fprintf(os.Stderr, "[RETRY ERROR] %s %v\n", msg, keysAndValues)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	fmt.Fprintf(os.Stderr, "[RETRY WARN] %s %v\n", msg, keysAndValues)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{})  {}
func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {}

// Client is a REST session against one collection. It implements Provider.
type Client struct {
	httpClient *nethttp.Client
	baseURL    string
	authMode   string
	username   string
	token      string
	computer   string
}

// NewClient connects to the collection described by cfg.
func NewClient(cfg config.Config) (*Client, error) {
	transport := &nethttp.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		Proxy:               nethttp.ProxyFromEnvironment,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	mode := strings.ToLower(cfg.AuthMode)
	var rt nethttp.RoundTripper = transport
	if mode == "ntlm" {
		// On-prem collections negotiate NTLM on the connection itself.
		rt = ntlmssp.Negotiator{RoundTripper: transport}
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &nethttp.Client{
		Transport: rt,
		Timeout:   300 * time.Second,
	}
	retryClient.RetryMax = 5
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 30 * time.Second
	retryClient.Logger = &retryLogger{}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "versync"
	}

	return &Client{
		httpClient: retryClient.StandardClient(),
		baseURL:    strings.TrimSuffix(cfg.CollectionURL, "/"),
		authMode:   mode,
		username:   cfg.Username,
		token:      cfg.Token,
		computer:   hostname,
	}, nil
}

// doRequest performs an authenticated REST call and returns the response.
// The caller owns the body.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*nethttp.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	fullURL := c.baseURL + path + sep + "api-version=" + apiVersion

	req, err := nethttp.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	switch c.authMode {
	case "pat":
		req.SetBasicAuth("", c.token)
	case "basic":
		req.SetBasicAuth(c.username, c.token)
	case "ntlm":
		if c.username != "" {
			req.SetBasicAuth(c.username, c.token)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &apiError{
			Status:  resp.StatusCode,
			Method:  method,
			Path:    path,
			Message: strings.TrimSpace(string(msg)),
		}
	}

	return resp, nil
}

// decode drains and closes the response body into v.
func decode(resp *nethttp.Response, v interface{}) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// REST resource shapes. Only the fields versync reads are declared.

type workspaceResource struct {
	Name     string            `json:"name"`
	Computer string            `json:"computer"`
	Owner    string            `json:"ownerName"`
	Mappings []mappingResource `json:"mappings"`
}

type mappingResource struct {
	ServerPath string `json:"serverItem"`
	LocalPath  string `json:"localItem"`
}

type workspaceListResponse struct {
	Count int                 `json:"count"`
	Value []workspaceResource `json:"value"`
}

// BuildMappings implements Provider. Zero or multiple matching workspaces
// resolve to an empty mapping set: the run then skips check-in per file
// instead of failing the build.
func (c *Client) BuildMappings(ctx context.Context, workspaceName, agentName string) ([]Mapping, error) {
	path := "/_apis/tfvc/workspaces?name=" + url.QueryEscape(workspaceName)
	resp, err := c.doRequest(ctx, "GET", path, nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query workspaces: %w", err)
	}

	var list workspaceListResponse
	if err := decode(resp, &list); err != nil {
		return nil, err
	}

	var matches []workspaceResource
	for _, ws := range list.Value {
		if agentName == "" || strings.EqualFold(ws.Computer, agentName) {
			matches = append(matches, ws)
		}
	}
	if len(matches) != 1 {
		return nil, nil
	}

	mappings := make([]Mapping, 0, len(matches[0].Mappings))
	for _, m := range matches[0].Mappings {
		mappings = append(mappings, Mapping{
			ServerPath: m.ServerPath,
			LocalPath:  m.LocalPath,
		})
	}
	return mappings, nil
}

// CreateWorkspace implements Provider.
func (c *Client) CreateWorkspace(ctx context.Context, name string) (Workspace, error) {
	body := map[string]interface{}{
		"name":     name,
		"computer": c.computer,
		"comment":  "versync temporary workspace",
	}
	resp, err := c.doRequest(ctx, "POST", "/_apis/tfvc/workspaces", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace %q: %w", name, err)
	}

	var ws workspaceResource
	if err := decode(resp, &ws); err != nil {
		return nil, err
	}
	if ws.Name == "" {
		ws.Name = name
	}

	return &remoteWorkspace{client: c, name: ws.Name}, nil
}

// remoteWorkspace implements Workspace over the REST session.
type remoteWorkspace struct {
	client *Client
	name   string
}

func (w *remoteWorkspace) Name() string { return w.name }

func (w *remoteWorkspace) Map(ctx context.Context, serverPath, localPath string) error {
	body := map[string]interface{}{
		"mappings": []map[string]string{{
			"serverItem":  serverPath,
			"localItem":   localPath,
			"mappingType": "map",
		}},
	}
	path := "/_apis/tfvc/workspaces/" + url.PathEscape(w.name) + "/mappings"
	resp, err := w.client.doRequest(ctx, "POST", path, body)
	if err != nil {
		return fmt.Errorf("failed to map %s: %w", serverPath, err)
	}
	resp.Body.Close()
	return nil
}

func (w *remoteWorkspace) Unmap(ctx context.Context, serverPath string) error {
	path := "/_apis/tfvc/workspaces/" + url.PathEscape(w.name) +
		"/mappings?serverItem=" + url.QueryEscape(serverPath)
	resp, err := w.client.doRequest(ctx, "DELETE", path, nil)
	if err != nil {
		return fmt.Errorf("failed to unmap %s: %w", serverPath, err)
	}
	resp.Body.Close()
	return nil
}

func (w *remoteWorkspace) Fetch(ctx context.Context, serverPath, localPath string) error {
	path := "/_apis/tfvc/items?path=" + url.QueryEscape(serverPath) + "&download=true"
	resp, err := w.client.doRequest(ctx, "GET", path, nil)
	if err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrItemNotFound, serverPath)
		}
		return fmt.Errorf("failed to fetch %s: %w", serverPath, err)
	}
	defer resp.Body.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}
	return f.Close()
}

func (w *remoteWorkspace) PendEdit(ctx context.Context, serverPath string) error {
	body := map[string]interface{}{
		"changes": []map[string]string{{
			"item":       serverPath,
			"changeType": "edit",
		}},
	}
	path := "/_apis/tfvc/workspaces/" + url.PathEscape(w.name) + "/pendingchanges"
	resp, err := w.client.doRequest(ctx, "POST", path, body)
	if err != nil {
		return fmt.Errorf("failed to pend edit on %s: %w", serverPath, err)
	}
	resp.Body.Close()
	return nil
}

func (w *remoteWorkspace) CheckIn(ctx context.Context, changes []PendingChange, comment string) (int, error) {
	changeList := make([]map[string]interface{}, 0, len(changes))
	for _, change := range changes {
		content, err := os.ReadFile(change.LocalPath)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", change.LocalPath, err)
		}
		changeList = append(changeList, map[string]interface{}{
			"changeType": "edit",
			"item": map[string]string{
				"path": change.ServerPath,
			},
			"newContent": map[string]string{
				"content":     base64.StdEncoding.EncodeToString(content),
				"contentType": "base64encoded",
			},
		})
	}

	body := map[string]interface{}{
		"comment": comment,
		"changes": changeList,
	}
	resp, err := w.client.doRequest(ctx, "POST", "/_apis/tfvc/changesets", body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCheckinRejected, err)
	}

	var result struct {
		ChangesetID int `json:"changesetId"`
	}
	if err := decode(resp, &result); err != nil {
		return 0, err
	}
	return result.ChangesetID, nil
}

func (w *remoteWorkspace) Delete(ctx context.Context) error {
	path := "/_apis/tfvc/workspaces/" + url.PathEscape(w.name)
	resp, err := w.client.doRequest(ctx, "DELETE", path, nil)
	if err != nil {
		return fmt.Errorf("failed to delete workspace %q: %w", w.name, err)
	}
	resp.Body.Close()
	return nil
}
