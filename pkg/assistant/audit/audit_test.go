package audit

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/vex-core/internal/adapter/repository/memory"
	"github.com/hugohenrick/vex-core/internal/domain/assistant"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/logger"
)

func TestSanitize(t *testing.T) {
	in := map[string]interface{}{
		"email":        "ana@x.com",
		"password":     "123",
		"ResetToken":   "abc",
		"nested":       map[string]interface{}{"client_secret": "s", "ok": 1},
		"list":         []interface{}{map[string]interface{}{"jwt": "x"}},
		"access_token": "t",
	}
	out := Sanitize(in).(map[string]interface{})

	assert.Equal(t, "ana@x.com", out["email"])
	assert.Equal(t, Redacted, out["password"])
	assert.Equal(t, Redacted, out["ResetToken"])
	assert.Equal(t, Redacted, out["access_token"])
	assert.Equal(t, Redacted, out["nested"].(map[string]interface{})["client_secret"])
	assert.Equal(t, 1, out["nested"].(map[string]interface{})["ok"])
	assert.Equal(t, Redacted, out["list"].([]interface{})[0].(map[string]interface{})["jwt"])
	assert.Equal(t, "123", in["password"], "entrada não é alterada")
}

func TestSanitize_DepthLimit(t *testing.T) {
	deep := map[string]interface{}{"token": "leak"}
	for i := 0; i < 6; i++ {
		deep = map[string]interface{}{"n": deep}
	}
	out := Sanitize(deep)
	for i := 0; i < 6; i++ {
		out = out.(map[string]interface{})["n"]
	}
	assert.Equal(t, "leak", out.(map[string]interface{})["token"])
}

func TestSanitize_Fields(t *testing.T) {
	out := Sanitize(tool.Fields{"email": "a@b.co", "token": "x"}).(map[string]interface{})
	assert.Equal(t, Redacted, out["token"])
	assert.Equal(t, "a@b.co", out["email"])
}

func TestSanitizeHeaders(t *testing.T) {
	out := SanitizeHeaders(map[string]string{"Authorization": "Bearer x", "X-Org-Id": "org-1"})
	assert.Equal(t, Redacted, out["Authorization"])
	assert.Equal(t, "org-1", out["X-Org-Id"])
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, `{"a":1}`, Summarize(map[string]interface{}{"a": 1}, 500))

	long := strings.Repeat("x", 600)
	got := Summarize(map[string]interface{}{"v": long}, 500)
	assert.Len(t, got, 503)
	assert.True(t, strings.HasSuffix(got, "..."))

	accents := Summarize(strings.Repeat("á", 10), 6)
	assert.True(t, strings.HasSuffix(accents, "..."))
	assert.NotContains(t, accents, "�")
}

func TestWriter_Write(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAuditRepository()
	w := NewWriter(repo, 50, logger.NewNop())

	owner := assistant.Owner{TenantID: "org-1", UserID: "u-1", UserEmail: "ana@x.com"}
	w.Write(ctx, Entry{
		Owner:  owner,
		Module: "core",
		Tool:   tool.InviteUser,
		Phase:  assistant.PhasePlan,
		Inputs: tool.Fields{"email": "bob@x.com", "rol": "admin"},
		Result: map[string]interface{}{"preview": strings.Repeat("y", 200)},
	})

	recs, err := repo.ListByTenant(ctx, "org-1", 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, tool.InviteUser, recs[0].Tool)
	assert.Equal(t, assistant.PhasePlan, recs[0].Phase)
	assert.LessOrEqual(t, len(recs[0].Result), 53)
	assert.NotEmpty(t, recs[0].ID)
}

type failingRepo struct{}

func (failingRepo) Append(context.Context, *assistant.AuditRecord) error {
	return errors.New("db down")
}

func (failingRepo) ListByTenant(context.Context, string, int) ([]*assistant.AuditRecord, error) {
	return nil, nil
}

func TestWriter_BestEffort(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(failingRepo{}, 0, logger.NewWithWriter(&buf))

	assert.NotPanics(t, func() {
		w.Write(context.Background(), Entry{Tool: tool.ResetPassword, Phase: assistant.PhaseExecute})
	})
	assert.Contains(t, buf.String(), "db down")
	assert.Equal(t, DefaultMaxLen, w.MaxLen())
}
