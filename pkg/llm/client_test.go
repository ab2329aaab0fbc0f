package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("  "); !errors.Is(err, errAPIKeyRequired) {
		t.Fatalf("expected api key error, got %v", err)
	}
}

func TestCompleteJSONRequest(t *testing.T) {
	const expectedURL = "http://llm.test/v1/chat/completions"

	var capturedURL, capturedAuth string
	var payload map[string]any
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedAuth = req.Header.Get("Authorization")
		body, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"`+"```json\\n{\\\"items\\\":[]}\\n```"+`"}}]}`), nil
	})

	client, err := NewClient("test-key",
		WithBaseURL("http://llm.test/v1/"),
		WithHTTPClient(&http.Client{Transport: rt}),
		WithModel("test-model"),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	raw, err := client.CompleteJSON(context.Background(), CompletionRequest{System: "sys", User: "2 calabresa"})
	if err != nil {
		t.Fatalf("CompleteJSON: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", capturedAuth)
	}
	if payload["model"] != "test-model" {
		t.Fatalf("unexpected model %v", payload["model"])
	}
	if msgs, ok := payload["messages"].([]any); !ok || len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %v", payload["messages"])
	}
	if string(raw) != `{"items":[]}` {
		t.Fatalf("unexpected content %s", raw)
	}
}

func TestCompleteJSONFailures(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
		err  error
	}{
		{name: "status", resp: jsonResponse(http.StatusTooManyRequests, `{"error":"rate"}`)},
		{name: "no choices", resp: jsonResponse(http.StatusOK, `{"choices":[]}`)},
		{name: "invalid content", resp: jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"not json"}}]}`)},
		{name: "transport", err: errors.New("dial failed")},
	}

	for _, tt := range tests {
		tt := tt
		rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if tt.err != nil {
				return nil, tt.err
			}
			return tt.resp, nil
		})
		client, _ := NewClient("k", WithHTTPClient(&http.Client{Transport: rt}))
		_, err := client.CompleteJSON(context.Background(), CompletionRequest{User: "x"})
		if pkgerrors.CodeOf(err) != pkgerrors.CodeDependency {
			t.Fatalf("%s: expected dependency error, got %v", tt.name, err)
		}
	}

	var nilClient *Client
	if _, err := nilClient.CompleteJSON(context.Background(), CompletionRequest{User: "x"}); pkgerrors.CodeOf(err) != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error for nil client, got %v", err)
	}
	client, _ := NewClient("k")
	if _, err := client.CompleteJSON(context.Background(), CompletionRequest{}); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty prompt, got %v", err)
	}
}
