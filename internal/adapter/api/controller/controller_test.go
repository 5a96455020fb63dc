package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/vex-core/internal/adapter/api/dto"
	"github.com/hugohenrick/vex-core/internal/adapter/repository/memory"
	"github.com/hugohenrick/vex-core/pkg/assistant"
	"github.com/hugohenrick/vex-core/pkg/auth"
	"github.com/hugohenrick/vex-core/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeHandler struct {
	got  assistant.Request
	resp *assistant.Response
}

func (f *fakeHandler) Handle(_ context.Context, req assistant.Request) *assistant.Response {
	f.got = req
	return f.resp
}

func bearer(t *testing.T, svc *auth.JWTService, claims auth.JWTClaims) string {
	t.Helper()
	tok, err := svc.GenerateToken(claims)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAssistantController_Chat(t *testing.T) {
	svc, err := auth.NewJWTService("secret", time.Hour)
	require.NoError(t, err)
	h := &fakeHandler{resp: &assistant.Response{Type: assistant.TypeActionPreview, Text: "ok", ConfirmToken: "tok"}}
	ctrl := NewAssistantController(h, logger.NewNop())

	r := gin.New()
	r.POST("/chat", auth.JWTAuthMiddleware(svc), ctrl.Chat)
	token := bearer(t, svc, auth.JWTClaims{UserID: "u-1", TenantID: "org-1", Email: "ana@x.com", Role: "admin"})

	w := do(r, http.MethodPost, "/chat", token, dto.ChatRequest{
		Message:       "  Marcar tarea como hecha ",
		CurrentModule: "crm",
		EntityContext: dto.EntityContextRequest{TaskID: 12},
		UserLocale:    "es-AR",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "action_preview", body["type"])
	assert.Equal(t, "tok", body["confirm_token"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	assert.Equal(t, "Marcar tarea como hecha", h.got.Message)
	assert.Equal(t, "org-1", h.got.Caller.TenantID)
	assert.Equal(t, "crm", h.got.Caller.CurrentModule)
	assert.Equal(t, int64(12), h.got.Caller.Entity.TaskID)
	assert.NotEmpty(t, h.got.Caller.AuthToken)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/chat", "", dto.ChatRequest{Message: "hola"}).Code)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssistantController_InternalError(t *testing.T) {
	svc, _ := auth.NewJWTService("secret", time.Hour)
	h := &fakeHandler{}
	ctrl := NewAssistantController(h, logger.NewNop())
	r := gin.New()
	r.POST("/chat", auth.JWTAuthMiddleware(svc), ctrl.Chat)
	token := bearer(t, svc, auth.JWTClaims{UserID: "u-1", TenantID: "org-1"})

	h.resp = &assistant.Response{Type: assistant.TypeError, Text: "Error interno del asistente", CorrelationID: "c-1"}
	w := do(r, http.MethodPost, "/chat", token, dto.ChatRequest{Message: "x"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"type":"error","text":"Error interno del asistente","correlation_id":"c-1"}`, w.Body.String())

	h.resp = &assistant.Response{Type: assistant.TypeError, Text: "No tenes permisos para eso."}
	w = do(r, http.MethodPost, "/chat", token, dto.ChatRequest{Message: "x"})
	assert.Equal(t, http.StatusOK, w.Code, "erros de negócio seguem com 200")
}

func TestModuleController(t *testing.T) {
	svc, _ := auth.NewJWTService("secret", time.Hour)
	repo := memory.NewModuleRepository()
	require.NoError(t, repo.SetEnabled(context.Background(), "org-1", "crm", true))
	ctrl := NewModuleController(repo, logger.NewNop())

	r := gin.New()
	r.Use(auth.JWTAuthMiddleware(svc))
	r.GET("/modules", ctrl.List)
	r.PUT("/modules", ctrl.Update)
	token := bearer(t, svc, auth.JWTClaims{UserID: "u-1", TenantID: "org-1", Email: "root@vex.io", Superadmin: true})

	w := do(r, http.MethodGet, "/modules", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mods []dto.ModuleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mods))
	require.Len(t, mods, 3)

	enabled := true
	w = do(r, http.MethodPut, "/modules", token, dto.ModuleUpdateRequest{Name: "Stock", Enabled: &enabled})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Módulo atualizado","data":{"nombre":"stock","habilitado":true}}`, w.Body.String())
	ok, err := repo.IsEnabled(context.Background(), "org-1", "stock")
	require.NoError(t, err)
	assert.True(t, ok)

	w = do(r, http.MethodPut, "/modules", token, dto.ModuleUpdateRequest{TenantID: "org-2", Name: "flows", Enabled: &enabled})
	require.Equal(t, http.StatusOK, w.Code)
	ok, _ = repo.IsEnabled(context.Background(), "org-2", "flows")
	assert.True(t, ok)

	w = do(r, http.MethodPut, "/modules", token, dto.ModuleUpdateRequest{Name: "core", Enabled: &enabled})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/modules", token, map[string]string{"nombre": "crm"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "habilitado é obrigatório")
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHealthController(t *testing.T) {
	r := gin.New()
	r.GET("/ok", NewHealthController(nil).Health)
	r.GET("/down", NewHealthController(pinger{err: errors.New("x")}).Health)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", "", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/down", "", nil).Code)
}
