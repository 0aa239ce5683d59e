package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	// 未带请求头时自动生成
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("应自动生成 X-Request-ID")
	}
	if w.Body.String() != w.Header().Get("X-Request-ID") {
		t.Error("上下文中的 request_id 应与响应头一致")
	}

	// 外部传入的 ID 原样透传
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	r.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") != "trace-123" {
		t.Errorf("外部 request_id 未透传: %q", w.Header().Get("X-Request-ID"))
	}

	// 超长 ID 被丢弃并重新生成
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("a", 65))
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); len(got) > 64 || strings.HasPrefix(got, "aaa") {
		t.Errorf("超长 request_id 应被替换: %q", got)
	}
}

func TestLoggerNilLogger(t *testing.T) {
	// logger 为 nil 时中间件应静默而非崩溃
	r := gin.New()
	r.Use(RequestID(), Logger(nil), gin.Recovery())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 期望 200", w.Code)
	}
	if w.Body.String() != "pong" {
		t.Errorf("响应体 = %q", w.Body.String())
	}
}
