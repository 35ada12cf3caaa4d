package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/roguepikachu/easel/pkg/ctxutil"
)

func TestRequestIDMiddleware_SetsHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if got := w.Header().Get(headerRequestID); got == "" {
		t.Fatalf("%s header should be set", headerRequestID)
	}
	if got := w.Header().Get(headerClientID); got == "" {
		t.Fatalf("%s header should be set", headerClientID)
	}
}

func TestRequestIDMiddleware_PropagatesProvided(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "rid-xyz")
	req.Header.Set("X-Client-ID", "cid-xyz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(headerRequestID) != "rid-xyz" || w.Header().Get(headerClientID) != "cid-xyz" {
		t.Fatalf("did not propagate provided headers: %s %s", w.Header().Get(headerRequestID), w.Header().Get(headerClientID))
	}
}

func TestRequestIDMiddleware_GeneratesUniqueIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	ids := make(map[string]bool)
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		requestID := w.Header().Get(headerRequestID)
		if requestID == "" {
			t.Fatalf("request ID should be generated")
		}
		if ids[requestID] {
			t.Fatalf("duplicate request ID: %s", requestID)
		}
		ids[requestID] = true
		// Verify UUID format (36 chars with hyphens)
		if len(requestID) != 36 {
			t.Fatalf("expected UUID format (36 chars), got %d: %s", len(requestID), requestID)
		}
	}
}

func TestRequestIDMiddleware_ContextValues(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())

	var contextRequestID, contextClientID string
	r.GET("/test", func(c *gin.Context) {
		contextRequestID = ctxutil.RequestID(c.Request.Context())
		contextClientID = ctxutil.ClientID(c.Request.Context())
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", "ctx-request-id")
	req.Header.Set("X-Client-ID", "ctx-client-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if contextRequestID != "ctx-request-id" {
		t.Fatalf("expected request ID in context, got %s", contextRequestID)
	}
	if contextClientID != "ctx-client-id" {
		t.Fatalf("expected client ID in context, got %s", contextClientID)
	}
}

func TestCtxutil_EmptyContext(t *testing.T) {
	if id := ctxutil.RequestID(context.Background()); id != "" {
		t.Fatalf("expected empty string for empty context, got %s", id)
	}
	if id := ctxutil.ClientID(context.Background()); id != "" {
		t.Fatalf("expected empty string for empty context, got %s", id)
	}
}
