package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/place-finder/internal/entity"
	middlewarepkg "github.com/octobees/place-finder/internal/middleware"
	"github.com/octobees/place-finder/internal/service"
)

type resolverStub struct {
	calls  int
	last   service.QueryRequest
	result *entity.QueryResult
	err    error
}

func (r *resolverStub) Resolve(_ context.Context, req service.QueryRequest) (*entity.QueryResult, error) {
	r.calls++
	r.last = req
	return r.result, r.err
}

func serveQuery(t *testing.T, h *QueryHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middlewarepkg.ContextKeyRequestID, "rid-http")

	if err := h.Query(c); err != nil {
		t.Fatalf("expected handler to write response, got %v", err)
	}
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload
}

func TestQueryHandler_Validation(t *testing.T) {
	tests := map[string]string{
		"malformed":       `{"prompt":`,
		"missing prompt":  `{}`,
		"short prompt":    `{"prompt":"ab"}`,
		"long prompt":     `{"prompt":"` + strings.Repeat("x", 501) + `"}`,
		"bad latitude":    `{"prompt":"cafe","user_location":{"lat":91,"lng":0}}`,
		"bad longitude":   `{"prompt":"cafe","user_location":{"lat":0,"lng":-181}}`,
		"zero results":    `{"prompt":"cafe","max_results":0}`,
		"too many result": `{"prompt":"cafe","max_results":11}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			stub := &resolverStub{}
			rec := serveQuery(t, NewQueryHandler(stub, false, nil), body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if stub.calls != 0 {
				t.Fatalf("resolver must not be called on client errors")
			}
			if got := decodeMap(t, rec)["request_id"]; got != "rid-http" {
				t.Fatalf("expected request id in error payload, got %v", got)
			}
		})
	}
}

func TestQueryHandler_Success(t *testing.T) {
	stub := &resolverStub{result: &entity.QueryResult{
		NarrativeText: "Two cafes.",
		Places:        []entity.Place{{ID: "p1", Name: "Kopi"}},
		RequestID:     "rid-http",
	}}
	rec := serveQuery(t, NewQueryHandler(stub, false, nil),
		`{"prompt":"  Find coffee shops in Jakarta ","max_results":2,"use_cache":false,"user_location":{"lat":-6.2,"lng":106.8}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.last.Prompt != "Find coffee shops in Jakarta" || stub.last.MaxResults != 2 || stub.last.UseCache {
		t.Fatalf("unexpected service request: %+v", stub.last)
	}
	if stub.last.RequestID != "rid-http" || stub.last.UserLocation == nil || stub.last.UserLocation.Lat != -6.2 {
		t.Fatalf("unexpected service request: %+v", stub.last)
	}

	payload := decodeMap(t, rec)
	data, ok := payload["data"].(map[string]any)
	if !ok || payload["status"] != "success" {
		t.Fatalf("unexpected envelope: %+v", payload)
	}
	for _, key := range []string{"llm_text", "places", "request_id", "cached", "processing_time"} {
		if _, ok := data[key]; !ok {
			t.Fatalf("missing %q in %+v", key, data)
		}
	}
}

func TestQueryHandler_Defaults(t *testing.T) {
	stub := &resolverStub{result: &entity.QueryResult{Places: []entity.Place{}}}
	serveQuery(t, NewQueryHandler(stub, false, nil), `{"prompt":"cafe di Bandung"}`)
	if stub.last.MaxResults != service.DefaultMaxResults || !stub.last.UseCache {
		t.Fatalf("expected defaults, got %+v", stub.last)
	}
}

func TestQueryHandler_NotFound(t *testing.T) {
	stub := &resolverStub{err: &service.QueryError{
		Kind:          service.ErrNoResults,
		RequestID:     "rid-http",
		NarrativeText: "Sorry, nothing matched.",
	}}
	rec := serveQuery(t, NewQueryHandler(stub, false, nil), `{"prompt":"cari warung di Atlantis"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	payload := decodeMap(t, rec)
	if payload["llm_text"] != "Sorry, nothing matched." || payload["request_id"] != "rid-http" || payload["status"] != "error" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestQueryHandler_Failure(t *testing.T) {
	cause := errors.New("narrator: connection refused")
	failure := &service.QueryError{Kind: service.ErrQueryFailed, RequestID: "rid-http", Err: cause}

	t.Run("production hides detail", func(t *testing.T) {
		rec := serveQuery(t, NewQueryHandler(&resolverStub{err: failure}, false, nil), `{"prompt":"cafe"}`)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		payload := decodeMap(t, rec)
		if strings.Contains(rec.Body.String(), "connection refused") {
			t.Fatalf("internal detail leaked: %s", rec.Body.String())
		}
		if payload["message"] != "failed to process query" || payload["request_id"] != "rid-http" {
			t.Fatalf("unexpected payload: %+v", payload)
		}
		if _, ok := payload["llm_text"]; ok {
			t.Fatalf("llm_text must be absent on failure")
		}
	})

	t.Run("development shows detail", func(t *testing.T) {
		rec := serveQuery(t, NewQueryHandler(&resolverStub{err: failure}, true, nil), `{"prompt":"cafe"}`)
		if !strings.Contains(rec.Body.String(), "connection refused") {
			t.Fatalf("expected detail in development: %s", rec.Body.String())
		}
	})
}
