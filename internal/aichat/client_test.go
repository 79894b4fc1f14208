package aichat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/uniconnect-hub/backend/internal/models"
)

func deltaLine(content string) string {
	return fmt.Sprintf(`data: {"choices":[{"delta":{"content":%q}}]}`+"\n\n", content)
}

func collectDeltas(deltas *[]string) func(string) error {
	return func(d string) error {
		*deltas = append(*deltas, d)
		return nil
	}
}

func TestParseStreamAssemblesDeltas(t *testing.T) {
	body := deltaLine("Hello") + deltaLine(", world") + "data: [DONE]\n\n"

	var deltas []string
	reply, err := parseStream(strings.NewReader(body), collectDeltas(&deltas))
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Hello, world" {
		t.Fatalf("reply %q", reply)
	}
	if len(deltas) != 2 || deltas[0] != "Hello" || deltas[1] != ", world" {
		t.Fatalf("deltas %v", deltas)
	}
}

func TestParseStreamSkipsCommentsAndBlanks(t *testing.T) {
	body := ": keep-alive\n\n" + deltaLine("ok") + ":\n" + "data: [DONE]\n\n"

	reply, err := parseStream(strings.NewReader(body), nil)
	if err != nil {
		t.Fatal(err)
	}
	if reply != "ok" {
		t.Fatalf("reply %q", reply)
	}
}

func TestParseStreamHandlesCRLF(t *testing.T) {
	body := strings.ReplaceAll(deltaLine("crlf")+"data: [DONE]\n\n", "\n", "\r\n")

	reply, err := parseStream(strings.NewReader(body), nil)
	if err != nil {
		t.Fatal(err)
	}
	if reply != "crlf" {
		t.Fatalf("reply %q", reply)
	}
}

// fragmentedReader hands out the body in fixed-size pieces so a data line can
// arrive split across reads.
type fragmentedReader struct {
	data []byte
	size int
}

func (r *fragmentedReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.size
	if n > len(r.data) {
		n = len(r.data)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

func TestParseStreamBuffersSplitChunks(t *testing.T) {
	body := deltaLine("first") + deltaLine("second") + "data: [DONE]\n\n"

	var deltas []string
	reply, err := parseStream(&fragmentedReader{data: []byte(body), size: 7}, collectDeltas(&deltas))
	if err != nil {
		t.Fatal(err)
	}
	if reply != "firstsecond" {
		t.Fatalf("reply %q", reply)
	}
	if len(deltas) != 2 {
		t.Fatalf("deltas %v", deltas)
	}
}

func TestParseStreamFlushesTrailingLines(t *testing.T) {
	// a malformed line stalls in-loop parsing; complete lines after it are
	// recovered by the final flush once the body ends
	body := "data: {broken\n" + deltaLine("late")

	reply, err := parseStream(strings.NewReader(body), nil)
	if err != nil {
		t.Fatal(err)
	}
	if reply != "late" {
		t.Fatalf("reply %q", reply)
	}
}

func TestParseStreamPropagatesDeltaError(t *testing.T) {
	body := deltaLine("x") + "data: [DONE]\n\n"
	wantErr := errors.New("client went away")

	_, err := parseStream(strings.NewReader(body), func(string) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected delta error, got %v", err)
	}
}

func gatewayStub(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization %q", got)
		}
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStreamChatSendsSystemPromptFirst(t *testing.T) {
	var captured completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Error(err)
		}
		io.WriteString(w, deltaLine("hi")+"data: [DONE]\n\n")
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"})
	history := []models.ChatMessage{{Role: "user", Content: "hello"}}

	reply, err := client.StreamChat(context.Background(), "be helpful", history, nil)
	if err != nil {
		t.Fatal(err)
	}
	if reply != "hi" {
		t.Fatalf("reply %q", reply)
	}
	if !captured.Stream || captured.Model != "test-model" {
		t.Fatalf("request %+v", captured)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" ||
		captured.Messages[0].Content != "be helpful" || captured.Messages[1].Content != "hello" {
		t.Fatalf("messages %+v", captured.Messages)
	}
}

func TestStreamChatMapsGatewayStatuses(t *testing.T) {
	cases := []struct {
		status  int
		wantErr error
	}{
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusPaymentRequired, ErrQuotaExhausted},
	}
	for _, tc := range cases {
		srv := gatewayStub(t, tc.status, "")
		client := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", Model: "m"})

		_, err := client.StreamChat(context.Background(), "p", nil, nil)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("status %d: got %v, want %v", tc.status, err, tc.wantErr)
		}
	}
}

func TestStreamChatReportsUnexpectedStatus(t *testing.T) {
	srv := gatewayStub(t, http.StatusInternalServerError, "upstream exploded")
	client := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", Model: "m"})

	_, err := client.StreamChat(context.Background(), "p", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "upstream exploded") {
		t.Fatalf("error %v", err)
	}
}
