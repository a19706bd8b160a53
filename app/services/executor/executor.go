// Package executor dispatches rendered prompts to the active completion
// endpoint and records each successful exchange as an immutable result.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/oklog/ulid/v2"

	"promptdeck/domain/endpoint"
	"promptdeck/domain/task"
	"promptdeck/internal/render"
)

const (
	completionPath = "/chat/completions"
	defaultTimeout = 30 * time.Second
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Executor issues completion calls and appends results through the task
// repository. It does not serialize concurrent calls: the caller must keep at
// most one execution in flight per version, the way the driving UI disables
// its run control while a call is outstanding.
type Executor struct {
	client *http.Client
	tasks  task.Repository

	// Now is the clock used for result timestamps, overridable in tests.
	Now func() time.Time
}

func New(tasks task.Repository, timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Executor{
		client: &http.Client{Timeout: timeout},
		tasks:  tasks,
		Now:    time.Now,
	}
}

// Execute renders the version's prompts against a snapshot of the task
// variables taken now, performs the completion call, and appends the result.
// On any failure nothing is recorded and the returned error is one of
// *NetworkError, *RemoteError or *ResponseShapeError (or a persistence error
// from the repository).
func (e *Executor) Execute(ctx context.Context, t *task.Task, v *task.Version, ep *endpoint.Endpoint) (*task.Result, error) {
	inputs := t.SnapshotVariables()
	systemPrompt := render.Render(v.SystemPrompt, inputs)
	userPrompt := render.Render(v.UserPrompt, inputs)

	content, err := e.complete(ctx, ep, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	result := &task.Result{
		ResultID:       "res_" + ulid.Make().String(),
		VersionID:      v.VersionID,
		ExecutedAt:     e.Now(),
		Inputs:         inputs,
		RenderedPrompt: userPrompt,
		Response:       content,
		Model:          ep.Model,
	}
	if err := e.tasks.AppendResult(ctx, t.ID, result); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"task":    t.ID,
		"version": v.VersionID,
		"model":   ep.Model,
	}).Info("execution recorded")

	return result, nil
}

func (e *Executor) complete(ctx context.Context, ep *endpoint.Endpoint, systemPrompt, userPrompt string) (string, error) {
	payload := chatRequest{
		Model: ep.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(ep.BaseURL, "/") + completionPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ep.APIKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(resp.Body)
		return "", &RemoteError{StatusCode: resp.StatusCode, Body: string(errBody)}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &ResponseShapeError{Reason: "body is not valid JSON"}
	}
	if len(parsed.Choices) == 0 {
		return "", &ResponseShapeError{Reason: "missing choices[0].message.content"}
	}
	return parsed.Choices[0].Message.Content, nil
}
