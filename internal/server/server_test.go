package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"truth-or-dare/internal/config"
	"truth-or-dare/internal/db/dbtest"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	srv := New(dbtest.Open(t), config.Default(), log)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, payload any) (*http.Response, map[string]any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode body %q: %v", raw, err)
		}
	}
	return resp, decoded
}

func createPromptViaAPI(t *testing.T, ts *httptest.Server, category, text string) string {
	t.Helper()
	resp, body := doJSON(t, ts, http.MethodPost, "/api/prompts", map[string]any{
		"category": category, "text": text, "created_by": "tester",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create prompt: status %d body %v", resp.StatusCode, body)
	}
	return body["id"].(string)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp, body := doJSON(t, ts, http.MethodGet, "/healthz", nil)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected health response: %d %v", resp.StatusCode, body)
	}
}

func TestPromptCRUDAndRotation(t *testing.T) {
	ts := newTestServer(t)
	id1 := createPromptViaAPI(t, ts, "truth", "T1")
	createPromptViaAPI(t, ts, "truth", "T2")

	resp, body := doJSON(t, ts, http.MethodGet, "/api/prompts?category=truth", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list prompts: status %d", resp.StatusCode)
	}
	if prompts := body["prompts"].([]any); len(prompts) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(prompts))
	}

	resp, body = doJSON(t, ts, http.MethodGet, "/api/prompts/next?category=truth", nil)
	if resp.StatusCode != http.StatusOK || body["id"] != id1 {
		t.Fatalf("expected rotation to start at %s, got %d %v", id1, resp.StatusCode, body)
	}

	resp, body = doJSON(t, ts, http.MethodPut, "/api/prompts/"+id1, map[string]any{"text": "T1 edited"})
	if resp.StatusCode != http.StatusOK || body["text"] != "T1 edited" {
		t.Fatalf("edit prompt: %d %v", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, ts, http.MethodDelete, "/api/prompts/"+id1, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete prompt: status %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, ts, http.MethodGet, "/api/prompts/"+id1, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestNextPromptEmptyCategory(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := doJSON(t, ts, http.MethodGet, "/api/prompts/next?category=dare", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for empty category, got %d", resp.StatusCode)
	}
}

func TestSubmissionGateBlocksNearDuplicates(t *testing.T) {
	ts := newTestServer(t)
	createPromptViaAPI(t, ts, "truth", "What is your biggest fear?")

	payload := map[string]any{
		"category":     "truth",
		"text":         "what is your biggest fear",
		"submitter_id": "user-1",
	}
	resp, body := doJSON(t, ts, http.MethodPost, "/api/submissions", payload)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected gate to block near-duplicate, got %d %v", resp.StatusCode, body)
	}
	if matches := body["matches"].([]any); len(matches) == 0 {
		t.Fatalf("expected ranked matches in gate response")
	}

	resp, body = doJSON(t, ts, http.MethodPost, "/api/submissions?confirm=true", payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected confirm=true to bypass the gate, got %d %v", resp.StatusCode, body)
	}
	if body["status"] != "pending" {
		t.Fatalf("expected pending submission, got %v", body["status"])
	}
}

func TestApproveFlowAndIdempotency(t *testing.T) {
	ts := newTestServer(t)
	resp, body := doJSON(t, ts, http.MethodPost, "/api/submissions", map[string]any{
		"category":     "dare",
		"text":         "sing the chorus of your favorite song",
		"submitter_id": "user-1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create submission: %d %v", resp.StatusCode, body)
	}
	subID := body["id"].(string)

	resp, body = doJSON(t, ts, http.MethodPost, "/api/submissions/"+subID+"/approve", map[string]any{
		"resolver_id": "mod-1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: %d %v", resp.StatusCode, body)
	}
	prompt := body["prompt"].(map[string]any)
	promptID := prompt["id"].(string)
	if prompt["category"] != "dare" {
		t.Fatalf("expected approved prompt in dare category, got %v", prompt)
	}

	// A second approval must report already-processed and must not create
	// another prompt.
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/submissions/"+subID+"/approve", map[string]any{
		"resolver_id": "mod-2",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on second approval, got %d", resp.StatusCode)
	}
	resp, body = doJSON(t, ts, http.MethodGet, "/api/prompts?category=dare", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list prompts: %d", resp.StatusCode)
	}
	if prompts := body["prompts"].([]any); len(prompts) != 1 {
		t.Fatalf("expected exactly one dare prompt, got %d", len(prompts))
	}

	resp, _ = doJSON(t, ts, http.MethodGet, "/api/prompts/"+promptID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approved prompt should exist, got %d", resp.StatusCode)
	}
}

func TestRejectFlow(t *testing.T) {
	ts := newTestServer(t)
	resp, body := doJSON(t, ts, http.MethodPost, "/api/submissions", map[string]any{
		"category":     "truth",
		"text":         "have you ever cheated on a test?",
		"submitter_id": "user-1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create submission: %d %v", resp.StatusCode, body)
	}
	subID := body["id"].(string)

	resp, body = doJSON(t, ts, http.MethodPost, "/api/submissions/"+subID+"/reject", map[string]any{
		"resolver_id": "mod-1", "reason": "duplicate of an existing prompt",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reject: %d %v", resp.StatusCode, body)
	}
	sub := body["submission"].(map[string]any)
	if sub["status"] != "rejected" || sub["resolver_id"] != "mod-1" {
		t.Fatalf("unexpected rejected submission: %v", sub)
	}

	resp, _ = doJSON(t, ts, http.MethodPost, "/api/submissions/"+subID+"/reject", map[string]any{
		"resolver_id": "mod-2",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on second rejection, got %d", resp.StatusCode)
	}
	// No prompt was created in the rejected category.
	resp, body = doJSON(t, ts, http.MethodGet, "/api/prompts?category=truth", nil)
	if prompts := body["prompts"].([]any); resp.StatusCode != http.StatusOK || len(prompts) != 0 {
		t.Fatalf("expected no truth prompts, got %d %v", resp.StatusCode, body)
	}
}

func TestVoteEndpoints(t *testing.T) {
	ts := newTestServer(t)
	promptID := createPromptViaAPI(t, ts, "truth", "votable")

	resp, body := doJSON(t, ts, http.MethodPost, "/api/prompts/"+promptID+"/ratings", map[string]any{
		"user_id": "u1", "value": 1,
	})
	if resp.StatusCode != http.StatusOK || body["outcome"] != "added" {
		t.Fatalf("first vote: %d %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, ts, http.MethodGet, "/api/prompts/"+promptID+"/ratings?user_id=u1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get counts: %d", resp.StatusCode)
	}
	counts := body["counts"].(map[string]any)
	if counts["upvotes"].(float64) != 1 {
		t.Fatalf("expected one upvote, got %v", counts)
	}
	if body["user_vote"].(float64) != 1 {
		t.Fatalf("expected user_vote 1, got %v", body["user_vote"])
	}

	resp, body = doJSON(t, ts, http.MethodPost, "/api/prompts/"+promptID+"/ratings", map[string]any{
		"user_id": "u1", "value": 1,
	})
	if resp.StatusCode != http.StatusOK || body["outcome"] != "removed" {
		t.Fatalf("toggle-off vote: %d %v", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, ts, http.MethodPost, "/api/prompts/ZZZZZZ/ratings", map[string]any{
		"user_id": "u1", "value": 1,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 voting on unknown prompt, got %d", resp.StatusCode)
	}
}
