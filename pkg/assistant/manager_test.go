package assistant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/vex-core/internal/adapter/repository/memory"
	domain "github.com/hugohenrick/vex-core/internal/domain/assistant"
	"github.com/hugohenrick/vex-core/internal/domain/module"
	"github.com/hugohenrick/vex-core/pkg/assistant/audit"
	"github.com/hugohenrick/vex-core/pkg/assistant/dialogue"
	"github.com/hugohenrick/vex-core/pkg/assistant/policy"
	"github.com/hugohenrick/vex-core/pkg/assistant/summary"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/logger"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeTools registra ferramentas que ecoam os campos e contam execuções
type fakeTools struct {
	execs    int64
	plans    int64
	execFail bool
	panicky  bool
}

func (f *fakeTools) descriptor(name tool.Name, mod, action string, required ...string) tool.Descriptor {
	return tool.Descriptor{
		Name:     name,
		Module:   mod,
		Action:   action,
		Required: required,
		Plan: func(_ context.Context, fields tool.Fields, _ tool.Caller) (*tool.PlanResult, error) {
			atomic.AddInt64(&f.plans, 1)
			if f.panicky {
				panic("boom")
			}
			preview := map[string]interface{}{}
			for k, v := range fields {
				preview[k] = v
			}
			return &tool.PlanResult{Status: tool.StatusOK, Preview: preview, Message: "preview de " + string(name)}, nil
		},
		Execute: func(_ context.Context, fields tool.Fields, _ tool.Caller) (*tool.ExecResult, error) {
			atomic.AddInt64(&f.execs, 1)
			if f.execFail {
				return tool.Failed("El CRM no respondio.", map[string]interface{}{"status": 502, "token": "x"}), nil
			}
			return &tool.ExecResult{Status: tool.StatusOK, Result: map[string]interface{}(fields.Clone()), Message: "hecho"}, nil
		},
	}
}

func (f *fakeTools) askingDescriptor() tool.Descriptor {
	d := f.descriptor(tool.CreateProduct, "stock", "create_product", "nombre")
	d.Plan = func(_ context.Context, fields tool.Fields, _ tool.Caller) (*tool.PlanResult, error) {
		if fields.IsBlank("almacen_id") {
			return tool.Ask("En que almacen?", "almacen_id"), nil
		}
		return &tool.PlanResult{
			Status:  tool.StatusOK,
			Fields:  tool.Fields{"nombre": fields.String("nombre"), "almacen_id": fields["almacen_id"], "resuelto": true},
			Preview: map[string]interface{}{"nombre": fields.String("nombre")},
		}, nil
	}
	return d
}

type fakeSummaries struct {
	err error
}

func (f fakeSummaries) Build(_ context.Context, _ tool.Caller, kind string) (*summary.Digest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &summary.Digest{Kind: kind, Text: "Resumen " + kind, Items: []interface{}{"a"}}, nil
}

type recorder struct {
	mu       sync.Mutex
	messages []string
	tools    []string
}

func (r *recorder) ObserveMessage(route, response string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, route+":"+response)
}

func (r *recorder) ObserveTool(name tool.Name, phase string, status tool.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools = append(r.tools, string(name)+":"+phase+":"+string(status))
}

type fixture struct {
	mgr       *Manager
	tools     *fakeTools
	clock     *clock
	audit     *memory.AuditRepository
	questions *memory.QuestionRepository
	modules   *memory.ModuleRepository
	recorder  *recorder
}

func newFixture(t *testing.T, summaries Summarizer) *fixture {
	t.Helper()
	ft := &fakeTools{}
	reg, err := tool.NewRegistry(
		ft.descriptor(tool.InviteUser, "core", "invite_user", "email", "rol"),
		ft.descriptor(tool.MarkTaskDone, "crm", "mark_task_done", "task_id"),
		ft.descriptor(tool.ChangeLeadStatus, "crm", "change_lead_status", "stage"),
		ft.askingDescriptor(),
	)
	require.NoError(t, err)

	clk := &clock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	questions := memory.NewQuestionRepository()
	machine := dialogue.New(questions, memory.NewConfirmationRepository(), dialogue.Config{}).WithClock(clk.Now)
	auditRepo := memory.NewAuditRepository()
	modules := memory.NewModuleRepository()
	require.NoError(t, modules.SetEnabled(context.Background(), "org-1", "crm", true))
	require.NoError(t, modules.SetEnabled(context.Background(), "org-1", "stock", true))
	if summaries == nil {
		summaries = fakeSummaries{}
	}
	rec := &recorder{}

	mgr, err := NewManager(Deps{
		Registry:  reg,
		Gate:      policy.NewGate([]string{"root@vex.io"}),
		Dialogue:  machine,
		Audit:     audit.NewWriter(auditRepo, 120, logger.NewNop()),
		Modules:   module.NewChecker(modules),
		Summaries: summaries,
		Logger:    logger.NewNop(),
		Recorder:  rec,
		Debug:     true,
	})
	require.NoError(t, err)
	return &fixture{mgr: mgr, tools: ft, clock: clk, audit: auditRepo, questions: questions, modules: modules, recorder: rec}
}

var (
	admin = tool.Caller{TenantID: "org-1", UserID: "u-1", Email: "ana@x.com", Role: "admin", AuthToken: "jwt"}
	basic = tool.Caller{TenantID: "org-1", UserID: "u-2", Email: "leo@x.com", Role: "user"}
)

func (f *fixture) say(caller tool.Caller, msg string) *Response {
	return f.mgr.Handle(context.Background(), Request{Message: msg, Caller: caller})
}

func (f *fixture) confirm(caller tool.Caller, token string) *Response {
	return f.mgr.Handle(context.Background(), Request{ConfirmToken: token, Caller: caller})
}

func TestNewManager_RequiresDeps(t *testing.T) {
	_, err := NewManager(Deps{})
	assert.Error(t, err)
}

func TestHandle_FullRoundTrip(t *testing.T) {
	f := newFixture(t, nil)

	preview := f.say(admin, "Invitar a bob@x.com como admin")
	require.Equal(t, TypeActionPreview, preview.Type, preview.Text)
	assert.Equal(t, tool.InviteUser, preview.Action)
	assert.Equal(t, "bob@x.com", preview.PayloadPreview["email"])
	assert.Equal(t, "admin", preview.PayloadPreview["rol"])
	assert.NotEmpty(t, preview.ConfirmToken)
	assert.Equal(t, int64(0), f.tools.execs, "plan não executa")

	result := f.confirm(admin, preview.ConfirmToken)
	require.Equal(t, TypeActionResult, result.Type, result.Text)
	assert.Equal(t, "hecho", result.Text)
	assert.Equal(t, int64(1), f.tools.execs)

	recs, err := f.audit.ListByTenant(context.Background(), "org-1", 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	phases := []domain.AuditPhase{recs[0].Phase, recs[1].Phase}
	assert.ElementsMatch(t, []domain.AuditPhase{domain.PhasePlan, domain.PhaseExecute}, phases)
	for _, r := range recs {
		assert.LessOrEqual(t, len(r.Inputs), 123)
		assert.LessOrEqual(t, len(r.Result), 123)
		assert.Equal(t, "ana@x.com", r.Owner.UserEmail)
	}

	assert.Contains(t, f.recorder.tools, "core.invite_user:plan:ok")
	assert.Contains(t, f.recorder.tools, "core.invite_user:execute:ok")
	assert.Contains(t, f.recorder.messages, "confirm:action_result")
}

func TestHandle_MergeIdempotence(t *testing.T) {
	oneTurn := newFixture(t, nil).say(admin, "Invitar a bob@x.com como admin")

	f := newFixture(t, nil)
	q := f.say(admin, "Invitar a bob@x.com")
	require.Equal(t, TypeQuestion, q.Type)
	assert.Equal(t, "rol", q.Field)
	assert.Equal(t, "Que rol queres? (admin o user)", q.Text)

	twoTurns := f.say(admin, "admin")
	require.Equal(t, TypeActionPreview, twoTurns.Type, twoTurns.Text)
	assert.Equal(t, oneTurn.Action, twoTurns.Action)
	assert.Equal(t, oneTurn.PayloadPreview, twoTurns.PayloadPreview)
	assert.Equal(t, oneTurn.Text, twoTurns.Text)
}

func TestHandle_UnparsableAnswerRepeatsQuestion(t *testing.T) {
	f := newFixture(t, nil)
	q := f.say(admin, "Invitar a bob@x.com")
	require.Equal(t, TypeQuestion, q.Type)

	again := f.say(admin, "no se, decidi vos")
	assert.Equal(t, TypeQuestion, again.Type)
	assert.Equal(t, q.Text, again.Text)

	resp := f.say(admin, "user")
	assert.Equal(t, TypeActionPreview, resp.Type, "a pergunta não foi consumida")
}

func TestHandle_CancelQuestion(t *testing.T) {
	f := newFixture(t, nil)
	require.Equal(t, TypeQuestion, f.say(admin, "Invitar a bob@x.com").Type)

	resp := f.say(admin, "Cancelar")
	assert.Equal(t, TypeMessage, resp.Type)
	assert.Equal(t, msgQuestionCancelled, resp.Text)

	resp = f.say(admin, "admin")
	assert.Equal(t, TypeHelp, resp.Type, "sem pergunta pendente a mensagem é nova")
}

func TestHandle_ExpiredQuestionIsNotResumed(t *testing.T) {
	f := newFixture(t, nil)
	require.Equal(t, TypeQuestion, f.say(admin, "Invitar a bob@x.com").Type)

	f.clock.Advance(dialogue.DefaultQuestionTTL + time.Minute)
	resp := f.say(admin, "admin")
	assert.Equal(t, TypeHelp, resp.Type)

	all := f.questions.All()
	require.Len(t, all, 1)
	assert.Equal(t, domain.QuestionExpired, all[0].Status)
}

func TestHandle_PlanQuestionIsPersisted(t *testing.T) {
	f := newFixture(t, nil)
	q := f.say(admin, `Crear producto "Yerba"`)
	require.Equal(t, TypeQuestion, q.Type, q.Text)
	assert.Equal(t, "almacen_id", q.Field)

	resp := f.say(admin, "almacen 3")
	require.Equal(t, TypeActionPreview, resp.Type, resp.Text)
	assert.Equal(t, msgPreview, resp.Text)

	result := f.confirm(admin, resp.ConfirmToken)
	require.Equal(t, TypeActionResult, result.Type)
	assert.Equal(t, true, result.Result["resuelto"], "confirmação guarda os campos normalizados pelo plan")
	assert.Equal(t, int64(3), result.Result["almacen_id"])
}

func TestHandle_ConfirmationIsSingleUse(t *testing.T) {
	f := newFixture(t, nil)
	preview := f.say(admin, "Invitar a bob@x.com como admin")

	require.Equal(t, TypeActionResult, f.confirm(admin, preview.ConfirmToken).Type)
	second := f.confirm(admin, preview.ConfirmToken)
	assert.Equal(t, TypeError, second.Type)
	assert.Equal(t, msgAlreadyProcessed, second.Text)
	assert.Equal(t, int64(1), f.tools.execs)
}

func TestHandle_ConcurrentConfirmations(t *testing.T) {
	f := newFixture(t, nil)
	preview := f.say(admin, "Invitar a bob@x.com como admin")

	var wg sync.WaitGroup
	var results, rejected int64
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := f.confirm(admin, preview.ConfirmToken)
			switch {
			case resp.Type == TypeActionResult:
				atomic.AddInt64(&results, 1)
			case resp.Type == TypeError && resp.Text == msgAlreadyProcessed:
				atomic.AddInt64(&rejected, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), results)
	assert.Equal(t, int64(19), rejected)
	assert.Equal(t, int64(1), f.tools.execs, "uma única chamada chega ao serviço remoto")
}

func TestHandle_ConfirmationRejections(t *testing.T) {
	f := newFixture(t, nil)
	preview := f.say(admin, "Invitar a bob@x.com como admin")

	resp := f.confirm(admin, "no-existe")
	assert.Equal(t, msgConfirmNotFound, resp.Text)

	other := admin
	other.UserID, other.Email = "u-9", "otro@x.com"
	resp = f.confirm(other, preview.ConfirmToken)
	assert.Equal(t, msgNotOwner, resp.Text)

	otherTenant := admin
	otherTenant.TenantID = "org-2"
	resp = f.confirm(otherTenant, preview.ConfirmToken)
	assert.Equal(t, msgConfirmNotFound, resp.Text)

	f.clock.Advance(dialogue.DefaultConfirmTTL + time.Second)
	resp = f.confirm(admin, preview.ConfirmToken)
	assert.Equal(t, TypeError, resp.Type)
	assert.Equal(t, msgConfirmExpired, resp.Text)
	assert.Equal(t, int64(0), f.tools.execs)
}

func TestHandle_PermissionGate(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.say(basic, "Invitar a bob@x.com como admin")
	assert.Equal(t, TypeError, resp.Type)
	assert.Equal(t, msgForbidden, resp.Text)
	assert.Equal(t, int64(0), f.tools.plans)

	resp = f.say(basic, "Marcar tarea #12 como hecha")
	assert.Equal(t, TypeActionPreview, resp.Type, resp.Text)

	root := basic
	root.Email = "root@vex.io"
	resp = f.say(root, "Invitar a bob@x.com como admin")
	assert.Equal(t, TypeActionPreview, resp.Type, "superadmin configurado passa")
}

func TestHandle_PermissionRecheckedOnConfirm(t *testing.T) {
	f := newFixture(t, nil)
	preview := f.say(admin, "Invitar a bob@x.com como admin")

	demoted := admin
	demoted.Role = "user"
	resp := f.confirm(demoted, preview.ConfirmToken)
	assert.Equal(t, msgForbidden, resp.Text)
	assert.Equal(t, int64(0), f.tools.execs)

	assert.Equal(t, TypeActionResult, f.confirm(admin, preview.ConfirmToken).Type, "token segue válido")
}

func TestHandle_ModuleDisabled(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.modules.SetEnabled(context.Background(), "org-1", "crm", false))

	resp := f.say(admin, "Mover lead #42 a Won")
	assert.Equal(t, TypeError, resp.Type)
	assert.Equal(t, "El modulo crm no esta habilitado en tu organizacion.", resp.Text)
}

func TestHandle_ExecuteFailureConsumesToken(t *testing.T) {
	f := newFixture(t, nil)
	f.tools.execFail = true
	preview := f.say(admin, "Invitar a bob@x.com como admin")

	resp := f.confirm(admin, preview.ConfirmToken)
	assert.Equal(t, TypeError, resp.Type)
	assert.Equal(t, "El CRM no respondio.", resp.Text)
	require.NotNil(t, resp.Debug)
	assert.Equal(t, audit.Redacted, resp.Debug["token"])

	assert.Equal(t, msgAlreadyProcessed, f.confirm(admin, preview.ConfirmToken).Text)

	recs, err := f.audit.ListByTenant(context.Background(), "org-1", 10)
	require.NoError(t, err)
	assert.Len(t, recs, 1, "só o plan é auditado")
}

func TestHandle_PanicBecomesInternalError(t *testing.T) {
	f := newFixture(t, nil)
	f.tools.panicky = true

	resp := f.say(admin, "Invitar a bob@x.com como admin")
	assert.Equal(t, TypeError, resp.Type)
	assert.Equal(t, msgInternal, resp.Text)
	assert.NotEmpty(t, resp.CorrelationID)
	assert.NotContains(t, resp.Text, "boom")
}

func TestHandle_Summary(t *testing.T) {
	f := newFixture(t, nil)
	resp := f.say(admin, "Resumen de hoy")
	assert.Equal(t, TypeSummary, resp.Type)
	assert.Equal(t, "daily", resp.SummaryType)
	assert.Len(t, resp.Items, 1)

	failing := newFixture(t, fakeSummaries{err: errors.New("crm down")})
	resp = failing.say(admin, "tareas atrasadas")
	assert.Equal(t, TypeError, resp.Type)
	assert.Equal(t, msgSummaryError, resp.Text)
}

func TestHandle_Capabilities(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.say(basic, "que podes hacer?")
	require.Equal(t, TypeMessage, resp.Type)
	var names []tool.Name
	for _, it := range resp.Items {
		names = append(names, it.(Capability).Tool)
	}
	assert.NotContains(t, names, tool.InviteUser)
	assert.Contains(t, names, tool.MarkTaskDone)

	resp = f.say(admin, "que podes hacer en crm?")
	for _, it := range resp.Items {
		assert.Equal(t, "crm", it.(Capability).Module)
	}
}

func TestHandle_Help(t *testing.T) {
	f := newFixture(t, nil)
	for _, msg := range []string{"", "   ", "hola"} {
		resp := f.say(admin, msg)
		assert.Equal(t, TypeHelp, resp.Type)
		assert.Equal(t, msgHelp, resp.Text)
	}
}

func TestHandle_QuestionWithoutIdentity(t *testing.T) {
	f := newFixture(t, nil)
	anon := tool.Caller{TenantID: "org-1", Role: "admin"}
	resp := f.say(anon, "Invitar a bob@x.com")
	assert.Equal(t, TypeQuestion, resp.Type)
	assert.Empty(t, f.questions.All())
}

func TestMissingQuestion(t *testing.T) {
	assert.Equal(t, "Como se llama el cliente?", missingQuestion(tool.CreateClient, "nombre"))
	assert.Equal(t, "Como se llama el producto?", missingQuestion(tool.CreateProduct, "nombre"))
	assert.Equal(t, msgMissingDefault, missingQuestion(tool.CreateProduct, "otro"))
}
