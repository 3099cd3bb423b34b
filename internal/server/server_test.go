package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/danzirulez/LogAnalyticsCollector/internal/auth"
	"github.com/danzirulez/LogAnalyticsCollector/internal/codec"
	"github.com/danzirulez/LogAnalyticsCollector/internal/engine"
	"github.com/danzirulez/LogAnalyticsCollector/internal/store"
)

const (
	testAPISecret = "query-secret"
	testSharedKey = "c2hhcmVkLWtleS1mb3ItdGVzdHM="
)

func startTestServer(t *testing.T) string {
	t.Helper()

	db, err := store.New(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv := khttp.NewServer(
		khttp.Address("127.0.0.1:0"),
		khttp.Middleware(ApiSecretMiddleware(testAPISecret)),
		khttp.Filter(SharedKeyFilter(testSharedKey)),
	)
	NewHandler(db).Register(srv.Route("/"))

	endpoint, err := srv.Endpoint()
	if err != nil {
		t.Fatalf("server endpoint: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = srv.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		_ = srv.Stop(context.Background())
	})

	return endpoint.String()
}

func testReportBody(t *testing.T, hostname, runID string) []byte {
	t.Helper()

	results := codec.NewObject()
	results.Set("bios", engine.Envelope{Status: engine.StatusSuccess, Payload: json.RawMessage(`{"vendor":"Acme"}`)})

	body, err := json.Marshal(&engine.Report{
		RunID:       runID,
		Host:        engine.HostIdentity{Hostname: hostname, Domain: "corp.example.com"},
		CollectedAt: time.Now().UTC().Truncate(time.Second),
		Summary:     engine.Summary{Success: 1},
		Results:     results,
	})
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}
	return body
}

func submitReport(t *testing.T, base string, body []byte, key string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, base+reportsPath, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	date := time.Now().UTC().Format(http.TimeFormat)
	sig, err := auth.Sign(key, http.MethodPost, reportsPath, date, len(body))
	if err != nil {
		t.Fatalf("sign request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.DateHeader, date)
	req.Header.Set("Authorization", auth.Authorization("workspace-1", sig))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("submit report: %v", err)
	}
	return resp
}

func queryJSON(t *testing.T, base, method, path string, out any) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, base+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-API-Key", testAPISecret)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	if out != nil && resp.StatusCode == http.StatusOK {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func TestSubmitAndFetchReport(t *testing.T) {
	base := startTestServer(t)

	resp := submitReport(t, base, testReportBody(t, "ws-042", "run-1"), testSharedKey)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var submitted submitReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if submitted.ID == 0 || submitted.StoredAt.IsZero() {
		t.Fatalf("incomplete submit response: %+v", submitted)
	}

	var fetched reportResponse
	queryJSON(t, base, http.MethodGet, fmt.Sprintf("%s/%d", reportsPath, submitted.ID), &fetched)
	if fetched.Report == nil || fetched.Report.RunID != "run-1" {
		t.Fatalf("fetched report mismatch: %+v", fetched)
	}
	if fetched.Report.Host.Hostname != "ws-042" {
		t.Fatalf("hostname = %q, want ws-042", fetched.Report.Host.Hostname)
	}
}

func TestSubmitReportRejectsBadSignature(t *testing.T) {
	base := startTestServer(t)

	wrongKey := base64.StdEncoding.EncodeToString([]byte("some other key"))
	resp := submitReport(t, base, testReportBody(t, "ws-042", "run-1"), wrongKey)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("submit status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestSubmitReportRequiresHostname(t *testing.T) {
	base := startTestServer(t)

	resp := submitReport(t, base, testReportBody(t, "", "run-1"), testSharedKey)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("submit status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestQueryRoutesRequireAPIKey(t *testing.T) {
	base := startTestServer(t)

	resp, err := http.Get(base + reportsPath)
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("list status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestListAndLatestReports(t *testing.T) {
	base := startTestServer(t)

	for i, host := range []string{"ws-001", "ws-002", "ws-001"} {
		resp := submitReport(t, base, testReportBody(t, host, fmt.Sprintf("run-%d", i)), testSharedKey)
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("submit %d status = %d", i, resp.StatusCode)
		}
	}

	var list listReportsResponse
	queryJSON(t, base, http.MethodGet, reportsPath+"?hostname=ws-001", &list)
	if list.TotalCount != 2 || len(list.Reports) != 2 {
		t.Fatalf("list = %d rows, total %d, want 2/2", len(list.Reports), list.TotalCount)
	}

	var latest reportResponse
	queryJSON(t, base, http.MethodGet, reportsPath+"/latest/ws-001", &latest)
	if latest.Report == nil || latest.Report.RunID != "run-2" {
		t.Fatalf("latest report mismatch: %+v", latest)
	}
}

func TestDeleteReport(t *testing.T) {
	base := startTestServer(t)

	resp := submitReport(t, base, testReportBody(t, "ws-042", "run-1"), testSharedKey)
	defer resp.Body.Close()
	var submitted submitReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}

	path := fmt.Sprintf("%s/%d", reportsPath, submitted.ID)
	del := queryJSON(t, base, http.MethodDelete, path, nil)
	del.Body.Close()
	if del.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d, want %d", del.StatusCode, http.StatusOK)
	}

	missing := queryJSON(t, base, http.MethodGet, path, nil)
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want %d", missing.StatusCode, http.StatusNotFound)
	}
}

func TestSharedKeyFilterRestoresBody(t *testing.T) {
	var seen []byte
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read restored body: %v", err)
		}
		seen = b
	})

	body := []byte(`{"runId":"run-1"}`)
	date := time.Now().UTC().Format(http.TimeFormat)
	sig, err := auth.Sign(testSharedKey, http.MethodPost, reportsPath, date, len(body))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, reportsPath, bytes.NewReader(body))
	req.Header.Set(auth.DateHeader, date)
	req.Header.Set("Authorization", auth.Authorization("workspace-1", sig))

	rr := httptest.NewRecorder()
	SharedKeyFilter(testSharedKey)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("filter status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !bytes.Equal(seen, body) {
		t.Fatalf("handler saw body %q, want %q", seen, body)
	}
}

func TestSharedKeyFilterRejectsStaleDate(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler invoked for stale request")
	})

	body := []byte(`{"runId":"run-1"}`)
	date := time.Now().UTC().Add(-time.Hour).Format(http.TimeFormat)
	sig, err := auth.Sign(testSharedKey, http.MethodPost, reportsPath, date, len(body))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, reportsPath, bytes.NewReader(body))
	req.Header.Set(auth.DateHeader, date)
	req.Header.Set("Authorization", auth.Authorization("workspace-1", sig))

	rr := httptest.NewRecorder()
	SharedKeyFilter(testSharedKey)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("filter status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
