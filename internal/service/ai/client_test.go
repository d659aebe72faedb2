package ai

import (
	"errors"
	"net/http"
	"testing"

	"github.com/cloudwego/eino/schema"

	"personachat/internal/models"
)

func TestBuildMessagesOrderAndRoles(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleUser, Content: "What languages do you use?"},
		{Role: models.RoleAssistant, Content: "Mostly Go and Python."},
		{Role: models.RoleUser, Content: "Any frontend experience?"},
	}
	messages := buildMessages("persona instruction", history, "Tell me about your last project.")

	if len(messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(messages))
	}
	if messages[0].Role != schema.System || messages[0].Content != "persona instruction" {
		t.Fatalf("system instruction must come first, got %+v", messages[0])
	}
	wantRoles := []schema.RoleType{schema.User, schema.Assistant, schema.User}
	for i, want := range wantRoles {
		got := messages[i+1]
		if got.Role != want {
			t.Fatalf("history message %d role: want %s got %s", i, want, got.Role)
		}
		if got.Content != history[i].Content {
			t.Fatalf("history message %d content mismatch: %q", i, got.Content)
		}
	}
	last := messages[len(messages)-1]
	if last.Role != schema.User || last.Content != "Tell me about your last project." {
		t.Fatalf("new prompt must come last, got %+v", last)
	}
}

func TestBuildMessagesEmptyHistory(t *testing.T) {
	messages := buildMessages("sys", nil, "hello")
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != schema.System || messages[1].Role != schema.User {
		t.Fatalf("unexpected roles: %s, %s", messages[0].Role, messages[1].Role)
	}
}

func TestWrapUpstreamStatusDetection(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		wantStatus  int
		rateLimited bool
	}{
		{"quota", errors.New("error, status code: 429, message: rate limit exceeded"), http.StatusTooManyRequests, true},
		{"auth", errors.New("error, status code: 401, message: invalid api key"), http.StatusUnauthorized, false},
		{"timeout", errors.New("context deadline exceeded"), http.StatusGatewayTimeout, false},
		{"unknown", errors.New("connection reset by peer"), http.StatusBadGateway, false},
	}
	for _, tc := range cases {
		ue := wrapUpstream(tc.err)
		if ue.Status != tc.wantStatus {
			t.Fatalf("%s: want status %d got %d", tc.name, tc.wantStatus, ue.Status)
		}
		if ue.RateLimited() != tc.rateLimited {
			t.Fatalf("%s: RateLimited() = %v", tc.name, ue.RateLimited())
		}
		if !errors.Is(ue, tc.err) {
			t.Fatalf("%s: wrapped error lost its cause", tc.name)
		}
	}
}
