package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/goleak"

	"github.com/zhouzirui/dali-api/internal/model/member"
	memberService "github.com/zhouzirui/dali-api/internal/service/member"
	postService "github.com/zhouzirui/dali-api/internal/service/post"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestRouter(reg *prometheus.Registry) http.Handler {
	members := memberService.NewService([]member.Member{
		{ID: 1, DaliUID: "d1", Name: "Alice", Year: float64(2025), Major: "CS", Dev: true},
	})
	posts := postService.NewService(nil, members)
	return NewRouter(members, posts, Options{Registry: reg})
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestPostAndReactionScenario(t *testing.T) {
	r := newTestRouter(nil)

	resp := serve(r, http.MethodPost, "/posts", `{"content":"hi","daliUID":"d1"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	assertJSON(t, resp.Body.Bytes(), `{"id":1,"content":"hi","author":{"id":1,"name":"Alice","major":"CS"},"reactions":[]}`)

	resp = serve(r, http.MethodPost, "/posts/1/reactions", `{"type":"like","daliUID":"d1"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	assertJSON(t, resp.Body.Bytes(), `{"id":1,"content":"hi","author":{"id":1,"name":"Alice","major":"CS"},"reactions":[{"user":{"id":1,"name":"Alice"},"type":"like"}]}`)
}

func TestErrorsUseMessageBody(t *testing.T) {
	r := newTestRouter(nil)

	resp := serve(r, http.MethodPost, "/posts", `{"content":"hi","daliUID":"nobody"}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	assertJSON(t, resp.Body.Bytes(), `{"message":"Member with daliUID nobody not found"}`)
}

func TestMemberFilterRoute(t *testing.T) {
	r := newTestRouter(nil)

	resp := serve(r, http.MethodGet, "/members/filter?major=cs", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var members []member.Member
	if err := json.Unmarshal(resp.Body.Bytes(), &members); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(members))
	}
}

func TestHealthAndPreflight(t *testing.T) {
	r := newTestRouter(nil)

	resp := serve(r, http.MethodGet, "/healthz", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = serve(r, http.MethodOptions, "/members", "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newTestRouter(reg)

	serve(r, http.MethodGet, "/members/1", "")
	serve(r, http.MethodGet, "/members/2", "")

	resp := serve(r, http.MethodGet, "/metrics", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, want := range []string{
		`dali_http_requests_total{method="GET",route="/members/{id}",status="200"} 1`,
		`dali_http_requests_total{method="GET",route="/members/{id}",status="404"} 1`,
		`dali_members 1`,
		`dali_posts 0`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q:\n%s", want, body)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	r := newTestRouter(nil)

	resp := serve(r, http.MethodGet, "/metrics", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without registry, got %d", resp.Code)
	}
}

func assertJSON(t *testing.T, got []byte, want string) {
	t.Helper()
	var g, w any
	if err := json.Unmarshal(got, &g); err != nil {
		t.Fatalf("decode response %s: %v", got, err)
	}
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("decode expectation: %v", err)
	}
	gb, _ := json.Marshal(g)
	wb, _ := json.Marshal(w)
	if !bytes.Equal(gb, wb) {
		t.Fatalf("unexpected body:\n got %s\nwant %s", gb, wb)
	}
}
