package dialogue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/vex-core/internal/adapter/repository/memory"
	"github.com/hugohenrick/vex-core/internal/domain/assistant"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
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

func newMachine() (*Machine, *clock) {
	clk := &clock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	m := New(memory.NewQuestionRepository(), memory.NewConfirmationRepository(), Config{
		ConfirmTTL:  15 * time.Minute,
		QuestionTTL: 30 * time.Minute,
	}).WithClock(clk.Now)
	return m, clk
}

var ana = assistant.Owner{TenantID: "org-1", UserID: "u-1", UserEmail: "ana@x.com"}

func TestQuestion_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m, clk := newMachine()

	q, err := m.OpenQuestion(ctx, ana, tool.InviteUser, "rol", "Que rol queres?", tool.Fields{"email": "ana@x.com", "rol": nil})
	require.NoError(t, err)
	assert.Equal(t, assistant.QuestionPending, q.Status)

	clk.Advance(time.Minute)
	active, err := m.ActiveQuestion(ctx, ana)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, q.ID, active.ID)
	assert.Equal(t, "ana@x.com", active.Fields["email"])

	require.NoError(t, m.ConsumeQuestion(ctx, active))
	assert.ErrorIs(t, m.ConsumeQuestion(ctx, active), ErrAlreadyProcessed)

	active, err = m.ActiveQuestion(ctx, ana)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestQuestion_LatestWins(t *testing.T) {
	ctx := context.Background()
	m, clk := newMachine()

	_, err := m.OpenQuestion(ctx, ana, tool.InviteUser, "rol", "q1", tool.Fields{})
	require.NoError(t, err)
	clk.Advance(time.Second)
	second, err := m.OpenQuestion(ctx, ana, tool.CreateClient, "nombre", "q2", tool.Fields{})
	require.NoError(t, err)

	active, err := m.ActiveQuestion(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	other, err := m.ActiveQuestion(ctx, assistant.Owner{TenantID: "org-2", UserID: "u-1"})
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestQuestion_ExpiresLazily(t *testing.T) {
	ctx := context.Background()
	m, clk := newMachine()

	_, err := m.OpenQuestion(ctx, ana, tool.InviteUser, "rol", "q", tool.Fields{})
	require.NoError(t, err)

	clk.Advance(31 * time.Minute)
	q, err := m.ActiveQuestion(ctx, ana)
	assert.ErrorIs(t, err, ErrQuestionExpired)
	require.NotNil(t, q)
	assert.Equal(t, assistant.QuestionExpired, q.Status)

	q, err = m.ActiveQuestion(ctx, ana)
	require.NoError(t, err)
	assert.Nil(t, q, "pergunta expirada não volta a ser retomada")
}

func TestQuestion_RequiresIdentity(t *testing.T) {
	m, _ := newMachine()
	_, err := m.OpenQuestion(context.Background(), assistant.Owner{TenantID: "org-1"}, tool.InviteUser, "rol", "q", nil)
	assert.ErrorIs(t, err, ErrMissingIdentity)
}

func TestConfirmation_SingleUse(t *testing.T) {
	ctx := context.Background()
	m, _ := newMachine()

	c, err := m.OpenConfirmation(ctx, ana, "core", tool.InviteUser, tool.Fields{"email": "bob@x.com"}, nil)
	require.NoError(t, err)
	assert.Len(t, c.Token, tokenBytes*2)

	loaded, err := m.LoadConfirmation(ctx, ana, c.Token)
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", loaded.Fields["email"])

	require.NoError(t, m.Claim(ctx, loaded))

	_, err = m.LoadConfirmation(ctx, ana, c.Token)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.ErrorIs(t, m.Claim(ctx, loaded), ErrAlreadyProcessed)
}

func TestConfirmation_Rejections(t *testing.T) {
	ctx := context.Background()
	m, clk := newMachine()

	c, err := m.OpenConfirmation(ctx, ana, "crm", tool.ChangeLeadStatus, tool.Fields{"lead_id": int64(42)}, map[string]interface{}{"stage": "Won"})
	require.NoError(t, err)

	_, err = m.LoadConfirmation(ctx, ana, "deadbeef")
	assert.ErrorIs(t, err, ErrConfirmationNotFound)

	_, err = m.LoadConfirmation(ctx, assistant.Owner{TenantID: "org-2", UserEmail: "ana@x.com"}, c.Token)
	assert.ErrorIs(t, err, ErrConfirmationNotFound, "token de outra organização")

	_, err = m.LoadConfirmation(ctx, assistant.Owner{TenantID: "org-1", UserID: "u-2", UserEmail: "bob@x.com"}, c.Token)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = m.LoadConfirmation(ctx, assistant.Owner{TenantID: "org-1", UserEmail: "ANA@X.COM"}, c.Token)
	assert.NoError(t, err, "email comparado sem diferenciar maiúsculas")

	clk.Advance(16 * time.Minute)
	_, err = m.LoadConfirmation(ctx, ana, c.Token)
	assert.ErrorIs(t, err, ErrConfirmationExpired)
}

func TestConfirmation_ClaimAfterExpiry(t *testing.T) {
	ctx := context.Background()
	m, clk := newMachine()

	c, err := m.OpenConfirmation(ctx, ana, "crm", tool.MarkTaskDone, tool.Fields{"task_id": int64(7)}, nil)
	require.NoError(t, err)

	clk.Advance(14 * time.Minute)
	loaded, err := m.LoadConfirmation(ctx, ana, c.Token)
	require.NoError(t, err)

	// o prazo vence entre a leitura e a execução
	clk.Advance(2 * time.Minute)
	assert.ErrorIs(t, m.Claim(ctx, loaded), ErrConfirmationExpired)
	assert.Equal(t, assistant.ConfirmationPending, loaded.Status)

	_, err = m.LoadConfirmation(ctx, ana, c.Token)
	assert.ErrorIs(t, err, ErrConfirmationExpired, "a confirmação continua pendente e vencida")
}

func TestConfirmation_ConcurrentClaim(t *testing.T) {
	ctx := context.Background()
	m, _ := newMachine()

	c, err := m.OpenConfirmation(ctx, ana, "stock", tool.CreateProduct, tool.Fields{"nombre": "Yerba"}, nil)
	require.NoError(t, err)

	var wins, lost int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loaded, err := m.LoadConfirmation(ctx, ana, c.Token)
			if err != nil {
				atomic.AddInt32(&lost, 1)
				return
			}
			if err := m.Claim(ctx, loaded); err != nil {
				atomic.AddInt32(&lost, 1)
				return
			}
			atomic.AddInt32(&wins, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
	assert.Equal(t, int32(15), lost)
}

func TestNewToken_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok, err := NewToken()
		require.NoError(t, err)
		assert.False(t, seen[tok])
		seen[tok] = true
	}
}

func TestOwnerOf(t *testing.T) {
	o := OwnerOf(tool.Caller{TenantID: "org-1", UserID: "u-1", Email: " Ana@X.com "})
	assert.Equal(t, assistant.Owner{TenantID: "org-1", UserID: "u-1", UserEmail: "ana@x.com"}, o)
}
