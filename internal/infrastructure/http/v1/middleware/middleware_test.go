package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"tourbook/internal/core/apperror"
	appctx "tourbook/internal/core/context"
	"tourbook/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestErrorHandler_RendersAppError(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(apperror.NewReferential("country", 3, "cities"))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, "REFERENTIAL_CONSTRAINT", body["code"])
	assert.Equal(t, "country is referenced by existing cities", body["message"])
	assert.Equal(t, "cities", body["details"].(map[string]any)["dependent"])
}

func TestErrorHandler_HidesUnknownErrors(t *testing.T) {
	r := gin.New()
	r.Use(Trace(), ErrorHandler())
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: password authentication failed"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w := serve(r, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.NotContains(t, w.Body.String(), "password")
	assert.Equal(t, "req-42", body["details"].(map[string]any)["request_id"])
}

func TestErrorHandler_KeepsWrittenResponse(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"ok": true})
		_ = c.Error(apperror.NewValidation("late"))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestRecovery_RendersInternalError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(), Trace(), Logger(logger.NewFromZap(zap.New(core))), ErrorHandler())
	r.GET("/", func(c *gin.Context) { panic("nil map") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.NotContains(t, w.Body.String(), "nil map")
	assert.NotEmpty(t, logs.FilterMessage("panic recovered").All())
}

func TestTrace_PropagatesAndGeneratesIDs(t *testing.T) {
	r := gin.New()
	r.Use(Trace())
	var seen string
	r.GET("/", func(c *gin.Context) { seen = appctx.GetRequestID(c.Request.Context()) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc")
	req.Header.Set(HeaderTraceID, "trace-1")
	w := serve(r, req)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "trace-1", w.Header().Get(HeaderTraceID))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	assert.Equal(t, w.Header().Get(HeaderRequestID), seen)
}

func TestLogger_LogsRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(Logger(logger.NewFromZap(zap.New(core))))
	r.GET("/things", func(c *gin.Context) {
		logger.Info(c.Request.Context(), "inside handler")
		c.Status(http.StatusNoContent)
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/things?limit=5", nil))

	require.Len(t, logs.FilterMessage("inside handler").All(), 1, "handler logs reach the request logger")
	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/things", fields["path"])
	assert.Equal(t, "limit=5", fields["query"])
	assert.EqualValues(t, http.StatusNoContent, fields["status"])
}

type stubValidator map[string]*appctx.UserContext

func (s stubValidator) Authenticate(token string) (*appctx.UserContext, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, apperror.NewUnauthorized("bad token")
}

func authRouter() *gin.Engine {
	validator := stubValidator{
		"admin-token":  {Username: "admin", Roles: []string{appctx.RoleAdmin}},
		"viewer-token": {Username: "viewer", Roles: []string{"Viewer"}},
	}
	r := gin.New()
	r.Use(ErrorHandler())
	g := r.Group("", Auth(validator), RequireRole(appctx.RoleAdmin))
	g.GET("/secret", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": appctx.GetUsername(c.Request.Context())})
	})
	return r
}

func TestAuth(t *testing.T) {
	r := authRouter()

	tests := []struct {
		name   string
		setup  func(req *http.Request)
		status int
	}{
		{"no credentials", func(*http.Request) {}, http.StatusUnauthorized},
		{"session cookie", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "admin-token"})
		}, http.StatusOK},
		{"bearer header", func(req *http.Request) { req.Header.Set("Authorization", "Bearer admin-token") }, http.StatusOK},
		{"malformed header", func(req *http.Request) { req.Header.Set("Authorization", "admin-token") }, http.StatusUnauthorized},
		{"unknown token", func(req *http.Request) { req.Header.Set("Authorization", "Bearer forged") }, http.StatusUnauthorized},
		{"missing role", func(req *http.Request) { req.Header.Set("Authorization", "Bearer viewer-token") }, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secret", nil)
			tt.setup(req)

			w := serve(r, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user":"admin"}`, w.Body.String())
			}
		})
	}
}

func TestMetrics_RecordsRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(reg, "test")
	require.NoError(t, err)

	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, httptest.NewRequest(http.MethodGet, "/items/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/items/2", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "test_http_requests_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			counts[labels["path"]+" "+labels["status"]] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{"/items/:id 200": 2, "unmatched 404": 1}, counts)

	_, err = NewHTTPMetrics(reg, "test")
	assert.Error(t, err)
}
