package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client interface for interacting with the Promptdeck API
type Client interface {
	CreateTask(req *CreateTaskRequest) (*Task, error)
	ListTasks() ([]Task, error)
	GetTask(taskID string) (*Task, error)
	RenameTask(taskID, name string) (*Task, error)
	DeleteTask(taskID string) error
	CreateVersion(taskID, description string) (*Version, error)
	GetVersion(taskID, versionID string) (*VersionDetails, error)
	SetVariable(taskID, name, value string) error
	Execute(taskID, versionID string) (*Result, error)
	History(taskID, versionID string) ([]HistoryEntry, error)
	Save(taskID string) error
	Render(template string, variables map[string]string) (*RenderResponse, error)
	AddEndpoint(req *AddEndpointRequest) (*Endpoint, error)
	ListEndpoints() ([]Endpoint, error)
	ActivateEndpoint(name string) (*Endpoint, error)
	ActiveEndpoint() (*Endpoint, error)
}

// HTTPClient implements the Client interface
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a new HTTP client
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Name string `json:"name"`
}

// Task represents a prompt task from the API
type Task struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	CreatedAt  time.Time         `json:"created_at"`
	ModifiedAt time.Time         `json:"modified_at"`
	Variables  map[string]string `json:"variables"`
	Versions   []Version         `json:"versions"`
}

// Version represents one prompt revision
type Version struct {
	VersionID    string    `json:"version_id"`
	Description  string    `json:"description"`
	SystemPrompt string    `json:"system_prompt"`
	UserPrompt   string    `json:"user_prompt"`
	CreatedAt    time.Time `json:"created_at"`
}

// VersionDetails is a version plus the variables its prompts reference
type VersionDetails struct {
	Version
	Variables []string          `json:"variables"`
	Values    map[string]string `json:"values"`
}

// Result represents one recorded execution
type Result struct {
	ResultID       string            `json:"result_id"`
	VersionID      string            `json:"version_id"`
	ExecutedAt     time.Time         `json:"executed_at"`
	Inputs         map[string]string `json:"inputs"`
	RenderedPrompt string            `json:"rendered_prompt"`
	Response       string            `json:"response"`
	Model          string            `json:"model"`
}

// HistoryEntry is a result plus its single-line preview
type HistoryEntry struct {
	Result
	Preview string `json:"preview"`
}

// RenderResponse is a rendered template and its referenced variables
type RenderResponse struct {
	Rendered  string   `json:"rendered"`
	Variables []string `json:"variables"`
}

// AddEndpointRequest represents the request payload for adding an endpoint
type AddEndpointRequest struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
	Active  bool   `json:"active"`
}

// Endpoint represents a configured completion endpoint
type Endpoint struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	Active  bool   `json:"active"`
}

// CreateTask creates a new task via the API
func (c *HTTPClient) CreateTask(req *CreateTaskRequest) (*Task, error) {
	var created Task
	if err := c.do(http.MethodPost, "/api/v1/tasks", req, http.StatusCreated, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListTasks lists all tasks
func (c *HTTPClient) ListTasks() ([]Task, error) {
	var tasks []Task
	if err := c.do(http.MethodGet, "/api/v1/tasks", nil, http.StatusOK, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask gets task details by ID
func (c *HTTPClient) GetTask(taskID string) (*Task, error) {
	var found Task
	if err := c.do(http.MethodGet, "/api/v1/tasks/"+taskID, nil, http.StatusOK, &found); err != nil {
		return nil, err
	}
	return &found, nil
}

// RenameTask renames a task
func (c *HTTPClient) RenameTask(taskID, name string) (*Task, error) {
	var renamed Task
	payload := map[string]string{"name": name}
	if err := c.do(http.MethodPut, "/api/v1/tasks/"+taskID, payload, http.StatusOK, &renamed); err != nil {
		return nil, err
	}
	return &renamed, nil
}

// DeleteTask deletes a task
func (c *HTTPClient) DeleteTask(taskID string) error {
	return c.do(http.MethodDelete, "/api/v1/tasks/"+taskID, nil, http.StatusNoContent, nil)
}

// CreateVersion adds the next version to a task
func (c *HTTPClient) CreateVersion(taskID, description string) (*Version, error) {
	var created Version
	payload := map[string]string{"description": description}
	if err := c.do(http.MethodPost, "/api/v1/tasks/"+taskID+"/versions", payload, http.StatusCreated, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetVersion loads a version with its referenced variables and current values
func (c *HTTPClient) GetVersion(taskID, versionID string) (*VersionDetails, error) {
	var details VersionDetails
	path := fmt.Sprintf("/api/v1/tasks/%s/versions/%s", taskID, versionID)
	if err := c.do(http.MethodGet, path, nil, http.StatusOK, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// SetVariable sets one task variable
func (c *HTTPClient) SetVariable(taskID, name, value string) error {
	payload := map[string]string{"name": name, "value": value}
	return c.do(http.MethodPut, "/api/v1/tasks/"+taskID+"/variables", payload, http.StatusNoContent, nil)
}

// Execute runs the version against the active endpoint
func (c *HTTPClient) Execute(taskID, versionID string) (*Result, error) {
	var result Result
	path := fmt.Sprintf("/api/v1/tasks/%s/versions/%s/execute", taskID, versionID)
	if err := c.do(http.MethodPost, path, nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// History lists past executions of a version, newest first
func (c *HTTPClient) History(taskID, versionID string) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	path := fmt.Sprintf("/api/v1/tasks/%s/versions/%s/results", taskID, versionID)
	if err := c.do(http.MethodGet, path, nil, http.StatusOK, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Save flushes pending edits for all open sessions
func (c *HTTPClient) Save(taskID string) error {
	return c.do(http.MethodPost, "/api/v1/tasks/"+taskID+"/save", nil, http.StatusNoContent, nil)
}

// Render substitutes variables into a template without touching any task
func (c *HTTPClient) Render(template string, variables map[string]string) (*RenderResponse, error) {
	var rendered RenderResponse
	payload := map[string]any{"template": template, "variables": variables}
	if err := c.do(http.MethodPost, "/api/v1/prompts/render", payload, http.StatusOK, &rendered); err != nil {
		return nil, err
	}
	return &rendered, nil
}

// AddEndpoint registers a completion endpoint
func (c *HTTPClient) AddEndpoint(req *AddEndpointRequest) (*Endpoint, error) {
	var added Endpoint
	if err := c.do(http.MethodPost, "/api/v1/endpoints", req, http.StatusCreated, &added); err != nil {
		return nil, err
	}
	return &added, nil
}

// ListEndpoints lists configured endpoints
func (c *HTTPClient) ListEndpoints() ([]Endpoint, error) {
	var endpoints []Endpoint
	if err := c.do(http.MethodGet, "/api/v1/endpoints", nil, http.StatusOK, &endpoints); err != nil {
		return nil, err
	}
	return endpoints, nil
}

// ActivateEndpoint makes the named endpoint the active one
func (c *HTTPClient) ActivateEndpoint(name string) (*Endpoint, error) {
	var activated Endpoint
	path := fmt.Sprintf("/api/v1/endpoints/%s/activate", name)
	if err := c.do(http.MethodPut, path, nil, http.StatusOK, &activated); err != nil {
		return nil, err
	}
	return &activated, nil
}

// ActiveEndpoint returns the currently active endpoint
func (c *HTTPClient) ActiveEndpoint() (*Endpoint, error) {
	var active Endpoint
	if err := c.do(http.MethodGet, "/api/v1/endpoints/active", nil, http.StatusOK, &active); err != nil {
		return nil, err
	}
	return &active, nil
}

func (c *HTTPClient) do(method, path string, payload any, wantStatus int, out any) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	httpReq, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
