// Package toolkit reúne o que as ferramentas remotas compartilham: acesso às
// APIs dos módulos, desambiguação por nome e conversões tolerantes de JSON.
package toolkit

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/hugohenrick/vex-core/pkg/assistant/audit"
	"github.com/hugohenrick/vex-core/pkg/assistant/remote"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
)

// Resolver resolve as URLs de um módulo
type Resolver interface {
	Resolve(ctx context.Context, tenantID, module string) remote.ModuleConfig
}

// Doer executa chamadas JSON
type Doer interface {
	RequestJSON(ctx context.Context, req remote.Request, out interface{}) error
}

// Backend dá acesso a um módulo remoto em nome do chamador
type Backend struct {
	Resolver Resolver
	Client   Doer

	// Debug anexa o detalhe sanitizado do erro remoto às respostas
	Debug bool
}

// Module prende o backend a um módulo e já resolve suas URLs
func (b *Backend) Module(ctx context.Context, caller tool.Caller, module string) *Module {
	return &Module{
		backend: b,
		caller:  caller,
		name:    module,
		cfg:     b.Resolver.Resolve(ctx, caller.TenantID, module),
	}
}

// Module é um módulo remoto resolvido para um chamador
type Module struct {
	backend *Backend
	caller  tool.Caller
	name    string
	cfg     remote.ModuleConfig
}

// Configured informa se há URL de API
func (m *Module) Configured() bool {
	return m.cfg.APIBase != ""
}

// DeepLink monta o link do frontend, ou "" quando não configurado
func (m *Module) DeepLink(path string) string {
	if m.cfg.FEBase == "" {
		return ""
	}
	return remote.JoinURL(m.cfg.FEBase, path)
}

// Get faz um GET e decodifica em out
func (m *Module) Get(ctx context.Context, path string, query map[string]string, out interface{}) error {
	return m.Do(ctx, "GET", path, query, nil, out)
}

// Do executa a chamada propagando token e organização do chamador
func (m *Module) Do(ctx context.Context, method, path string, query map[string]string, body, out interface{}) error {
	return m.backend.Client.RequestJSON(ctx, remote.Request{
		Module:    m.name,
		BaseURL:   m.cfg.APIBase,
		Path:      path,
		Method:    method,
		Query:     query,
		Body:      body,
		AuthToken: m.caller.AuthToken,
		TenantID:  m.caller.TenantID,
	}, out)
}

// Failure transforma um erro remoto em resultado de erro da ferramenta.
// O detalhe só é anexado com Debug ligado e nunca inclui credenciais.
func (m *Module) Failure(message string, err error) *tool.ExecResult {
	var status int
	var he *remote.HTTPError
	if errors.As(err, &he) {
		status = he.Status
		message = message + " (HTTP " + strconv.Itoa(he.Status) + ")"
	}
	return tool.Failed(message, m.backend.debug(status, err))
}

func (b *Backend) debug(status int, err error) map[string]interface{} {
	if !b.Debug || err == nil {
		return nil
	}
	out := map[string]interface{}{"error": err.Error()}
	if status > 0 {
		out["status"] = status
	}
	var he *remote.HTTPError
	if errors.As(err, &he) && he.Body != "" {
		out["data"] = audit.Sanitize(decodeBody(he.Body))
	}
	return out
}

func decodeBody(body string) interface{} {
	f, err := tool.DecodeFields([]byte(body))
	if err != nil {
		return strings.TrimSpace(body)
	}
	return map[string]interface{}(f)
}
