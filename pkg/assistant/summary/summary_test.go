package summary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/vex-core/pkg/assistant/intent"
	"github.com/hugohenrick/vex-core/pkg/assistant/remote"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/assistant/toolkit"
	"github.com/hugohenrick/vex-core/pkg/logger"
)

type resolver map[string]remote.ModuleConfig

func (r resolver) Resolve(_ context.Context, _ string, module string) remote.ModuleConfig {
	return r[module]
}

const tasksJSON = `[
	{"id": 1, "titulo": "Llamar", "vence_en": "2024-05-01T15:00:00Z", "cliente_nombre": "ACME"},
	{"id": 2, "titulo": "Enviar presupuesto", "vence_en": "2024-05-01T09:00:00Z"},
	{"id": 3, "titulo": "Vieja", "vence_en": "2024-04-20"},
	{"id": 4, "titulo": "Hecha", "vence_en": "2024-05-01", "completada": true},
	{"id": 5, "titulo": "", "vence_en": "2024-05-04T10:00:00Z"},
	{"id": 6, "titulo": "Sin fecha"}
]`

const kanbanJSON = `{"columns": [
	{"key": "qualified", "items": [{"id": 10, "nombre": "Beta", "due_date": "2024-05-03"}]},
	{"key": "follow-up-missed", "items": [{"id": 11, "nombre": "Gamma", "categoria": "Follow-up Missed"}]},
	{"title": "Unqualified", "items": [{"id": 12, "nombre": ""}]}
]}`

const movementsJSON = `[
	{"id": 100, "producto_id": 7, "cantidad": "3", "fecha": "2024-05-01"},
	{"id": 101, "producto_id": 8, "cantidad": 1, "created_at": "2024-05-02T08:00:00Z"},
	{"id": 102, "producto_id": 9, "cantidad": 1, "fecha": "2024-03-01"}
]`

func newService(t *testing.T, crmFail bool) *Service {
	crmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if crmFail {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		switch r.URL.Path {
		case "/tareas":
			assert.Equal(t, "200", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(tasksJSON))
		case "/kanban/clientes":
			_, _ = w.Write([]byte(kanbanJSON))
		}
	}))
	t.Cleanup(crmSrv.Close)
	stockSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(movementsJSON))
	}))
	t.Cleanup(stockSrv.Close)

	backend := &toolkit.Backend{
		Resolver: resolver{
			"crm":   {APIBase: crmSrv.URL, FEBase: "https://crm.app"},
			"stock": {APIBase: stockSrv.URL},
		},
		Client: remote.NewClient(time.Second),
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return NewService(backend, logger.NewNop()).WithClock(func() time.Time { return now })
}

var caller = tool.Caller{TenantID: "org-1", UserID: "u-1"}

func TestBuild(t *testing.T) {
	svc := newService(t, false)
	ctx := context.Background()

	cases := []struct {
		kind  string
		text  string
		items int
		link  string
	}{
		{intent.SummaryDaily, "Resumen de hoy: 2 tareas vencen hoy y 1 movimientos de stock.", 3, "https://crm.app/tareas"},
		{intent.SummaryWeekly, "Resumen semanal: 3 tareas con vencimiento y 2 movimientos de stock.", 5, "https://crm.app/tareas"},
		{intent.SummaryOverdue, "Hay 1 tareas atrasadas.", 1, "https://crm.app/tareas"},
		{intent.SummaryUpcoming, "Vencimientos proximos: 3 tareas y 1 leads en la semana.", 4, "https://crm.app/kanban/clientes"},
		{intent.SummaryColdLeads, "Oportunidades frias: 2 leads en riesgo.", 2, "https://crm.app/kanban/clientes"},
		{intent.SummaryTop5Today, "Top 5 para hoy.", 2, "https://crm.app/tareas"},
	}
	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			d, err := svc.Build(ctx, caller, tc.kind)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, d.Kind)
			assert.Equal(t, tc.text, d.Text)
			assert.Len(t, d.Items, tc.items)
			assert.Equal(t, tc.link, d.DeepLink)
		})
	}
}

func TestBuild_Top5SortedByDue(t *testing.T) {
	d, err := newService(t, false).Build(context.Background(), caller, intent.SummaryTop5Today)
	require.NoError(t, err)
	require.Len(t, d.Items, 2)
	first := d.Items[0].(TaskItem)
	assert.Equal(t, int64(2), *first.ID)
	assert.Equal(t, "2024-05-01", *first.DueAt)
}

func TestBuild_ItemDefaults(t *testing.T) {
	d, err := newService(t, false).Build(context.Background(), caller, intent.SummaryColdLeads)
	require.NoError(t, err)
	gamma := d.Items[0].(LeadItem)
	assert.Equal(t, "Follow-up Missed", *gamma.Stage, "categoria quando não há stage")
	unnamed := d.Items[1].(LeadItem)
	assert.Equal(t, "Lead", unnamed.Nombre)
	assert.Nil(t, unnamed.Stage)
}

func TestBuild_RemoteFailureCountsAsEmpty(t *testing.T) {
	d, err := newService(t, true).Build(context.Background(), caller, intent.SummaryDaily)
	require.NoError(t, err)
	assert.Equal(t, "Resumen de hoy: 0 tareas vencen hoy y 1 movimientos de stock.", d.Text)
}

func TestBuild_UnknownKind(t *testing.T) {
	_, err := newService(t, false).Build(context.Background(), caller, "mensual")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestLimit(t *testing.T) {
	assert.Len(t, limit(12), MaxItems)
	assert.Len(t, limit(2), 2)
}
