package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/vex-core/pkg/assistant/intent"
	"github.com/hugohenrick/vex-core/pkg/assistant/remote"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/assistant/toolkit"
)

type call struct {
	Method string
	Path   string
	Query  string
	Body   map[string]interface{}
}

type fakeCRM struct {
	mu     sync.Mutex
	calls  []call
	routes map[string]string
	status map[string]int
}

func (f *fakeCRM) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})
	f.mu.Unlock()

	key := r.Method + " " + r.URL.Path
	if st, ok := f.status[key]; ok {
		w.WriteHeader(st)
	}
	if resp, ok := f.routes[key]; ok {
		_, _ = w.Write([]byte(resp))
		return
	}
	_, _ = w.Write([]byte(`{}`))
}

type resolver remote.ModuleConfig

func (r resolver) Resolve(context.Context, string, string) remote.ModuleConfig {
	return remote.ModuleConfig(r)
}

var caller = tool.Caller{TenantID: "org-1", UserID: "u-1", AuthToken: "jwt"}

func newTools(t *testing.T, f *fakeCRM) *Tools {
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return New(&toolkit.Backend{
		Resolver: resolver{APIBase: srv.URL + "/api", FEBase: "https://crm.app"},
		Client:   remote.NewClient(time.Second),
	})
}

func TestMarkTaskDone_ByTitle(t *testing.T) {
	f := &fakeCRM{routes: map[string]string{
		"GET /api/tareas": `[{"id": 3, "titulo": "Llamar a Ana", "cliente_nombre": "ACME"}, {"id": "4", "titulo": "Llamar a Ana mañana"}]`,
	}}
	tools := newTools(t, f)

	plan, err := tools.planMarkTaskDone(context.Background(), tool.Fields{"task_title": "llamar a ana"}, caller)
	require.NoError(t, err)
	require.Equal(t, tool.StatusOK, plan.Status)
	assert.Equal(t, tool.Fields{"task_id": int64(3)}, plan.Fields)
	assert.Equal(t, "ACME", plan.Preview["cliente"])
	assert.Equal(t, "https://crm.app/tareas", plan.DeepLink)
	assert.Contains(t, f.calls[0].Query, "q=llamar+a+ana")
}

func TestMarkTaskDone_Ambiguous(t *testing.T) {
	f := &fakeCRM{routes: map[string]string{
		"GET /api/tareas": `[{"id": 3, "titulo": "Llamar"}, {"id": 4, "titulo": "Llamar otra vez"}]`,
	}}
	plan, err := newTools(t, f).planMarkTaskDone(context.Background(), tool.Fields{"task_title": "llam"}, caller)
	require.NoError(t, err)
	assert.Equal(t, tool.StatusQuestion, plan.Status)
	assert.Equal(t, "task_id", plan.AskField)
	assert.Contains(t, plan.Question, "#3 - Llamar, #4 - Llamar otra vez")
}

func TestMarkTaskDone_NoMatchAndMissing(t *testing.T) {
	f := &fakeCRM{routes: map[string]string{"GET /api/tareas": `[]`}}
	tools := newTools(t, f)

	plan, err := tools.planMarkTaskDone(context.Background(), tool.Fields{"task_title": "nada"}, caller)
	require.NoError(t, err)
	assert.Equal(t, tool.StatusError, plan.Status)

	plan, err = tools.planMarkTaskDone(context.Background(), tool.Fields{}, caller)
	require.NoError(t, err)
	assert.Equal(t, tool.StatusQuestion, plan.Status)
	assert.Empty(t, f.calls, "pergunta antes de chamar o CRM")
}

func TestMarkTaskDone_Execute(t *testing.T) {
	f := &fakeCRM{routes: map[string]string{"PATCH /api/tareas/7": `{"id": 7, "estado": "done"}`}}
	res, err := newTools(t, f).executeMarkTaskDone(context.Background(), tool.Fields{"task_id": int64(7)}, caller)
	require.NoError(t, err)
	assert.Equal(t, tool.StatusOK, res.Status)
	assert.Equal(t, "Listo. Tarea #7 marcada como hecha.", res.Message)
	require.Len(t, f.calls, 1)
	assert.Equal(t, true, f.calls[0].Body["completada"])
}

func TestChangeLeadStatus(t *testing.T) {
	f := &fakeCRM{routes: map[string]string{
		"GET /api/clientes":                  `[{"id": 42, "nombre": "ACME"}]`,
		"PATCH /api/kanban/clientes/42/move": `{"id": 42, "stage": "Won"}`,
	}}
	tools := newTools(t, f)
	ctx := context.Background()

	plan, err := tools.planChangeLeadStatus(ctx, tool.Fields{"lead_name": "acm", "stage": "Won"}, caller)
	require.NoError(t, err)
	require.Equal(t, tool.StatusOK, plan.Status)
	assert.Equal(t, int64(42), plan.Fields["lead_id"])
	assert.Contains(t, f.calls[0].Query, "status=all")

	res, err := tools.executeChangeLeadStatus(ctx, plan.Fields, caller)
	require.NoError(t, err)
	assert.Equal(t, `Listo. Lead #42 movido a "Won".`, res.Message)
	assert.Equal(t, "Won", f.calls[1].Body["stage"])
}

func TestChangeLeadStatus_AsksStage(t *testing.T) {
	plan, err := newTools(t, &fakeCRM{}).planChangeLeadStatus(context.Background(), tool.Fields{"lead_id": int64(1)}, caller)
	require.NoError(t, err)
	assert.Equal(t, "stage", plan.AskField)
}

func TestChangeLeadStatus_AnswerLeadByName(t *testing.T) {
	f := &fakeCRM{routes: map[string]string{
		"GET /api/clientes": `[{"id": 42, "nombre": "Juan Perez"}, {"id": 43, "nombre": "Juana Diaz"}]`,
	}}
	tools := newTools(t, f)
	ctx := context.Background()

	fields := tool.Fields{"lead_id": nil, "lead_name": nil, "stage": "Won"}
	plan, err := tools.planChangeLeadStatus(ctx, fields, caller)
	require.NoError(t, err)
	require.Equal(t, tool.StatusQuestion, plan.Status)
	assert.Equal(t, "Necesito el id o nombre del lead.", plan.Question)
	require.Equal(t, "lead_id", plan.AskField)

	answer, ok := intent.ParseFieldAnswer(plan.AskField, "Juan Perez")
	require.True(t, ok, "o nome responde à pergunta do lead")

	plan, err = tools.planChangeLeadStatus(ctx, fields.Merge(answer), caller)
	require.NoError(t, err)
	require.Equal(t, tool.StatusOK, plan.Status)
	assert.Equal(t, int64(42), plan.Fields["lead_id"])
	assert.Equal(t, "Juan Perez", plan.Preview["nombre"])
	require.Len(t, f.calls, 1)
	query, err := url.ParseQuery(f.calls[0].Query)
	require.NoError(t, err)
	assert.Equal(t, "Juan Perez", query.Get("q"))
}

func TestCreateClient(t *testing.T) {
	f := &fakeCRM{routes: map[string]string{"POST /api/clientes": `{"id": "15", "nombre": "ACME SA"}`}}
	tools := newTools(t, f)
	ctx := context.Background()

	plan, err := tools.planCreateClient(ctx, tool.Fields{"nombre": "ACME SA", "email": "", "telefono": "123"}, caller)
	require.NoError(t, err)
	require.Equal(t, tool.StatusOK, plan.Status)
	assert.Nil(t, plan.Preview["email"])
	assert.Empty(t, f.calls, "plan não cria nada")

	res, err := tools.executeCreateClient(ctx, plan.Fields, caller)
	require.NoError(t, err)
	assert.Equal(t, int64(15), res.Result["cliente_id"])
	assert.Equal(t, "active", f.calls[0].Body["status"])
}

func TestExecute_RemoteError(t *testing.T) {
	f := &fakeCRM{status: map[string]int{"POST /api/clientes": http.StatusInternalServerError}}
	res, err := newTools(t, f).executeCreateClient(context.Background(), tool.Fields{"nombre": "X"}, caller)
	require.NoError(t, err)
	assert.Equal(t, tool.StatusError, res.Status)
	assert.Equal(t, "No pude crear el cliente. (HTTP 500)", res.Message)
}

func TestNotConfigured(t *testing.T) {
	tools := New(&toolkit.Backend{Resolver: resolver{}, Client: remote.NewClient(time.Second)})
	plan, err := tools.planCreateClient(context.Background(), tool.Fields{"nombre": "X"}, caller)
	require.NoError(t, err)
	assert.Equal(t, msgNotConfigured, plan.Message)
}
