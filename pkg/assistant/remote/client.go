package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout é o prazo de cada chamada remota
const DefaultTimeout = 8 * time.Second

// ErrMissingAPIBase indica que o módulo não tem URL de API configurada
var ErrMissingAPIBase = errors.New("missing_api_base")

// HTTPError é uma resposta remota com status >= 400
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Status)
}

// IsStatus informa se err é um HTTPError com o status indicado
func IsStatus(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == status
}

// Request descreve uma chamada JSON a um módulo remoto
type Request struct {
	Module  string
	BaseURL string
	Path    string
	Method  string
	Body    interface{}
	Query   map[string]string
	Headers map[string]string

	// AuthToken e TenantID são propagados do chamador original
	AuthToken string
	TenantID  string
}

// Observer recebe o resultado de cada chamada (status 0 em falha de transporte)
type Observer func(module, method string, status int, elapsed time.Duration)

// Client executa chamadas JSON sobre HTTP
type Client struct {
	http     *resty.Client
	observer Observer
}

// NewClient cria o cliente com o prazo informado
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := resty.New().
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "Vex-Assistant/1.0").
		SetTimeout(timeout)
	return &Client{http: httpClient}
}

// WithObserver registra um observador para métricas
func (c *Client) WithObserver(o Observer) *Client {
	c.observer = o
	return c
}

// RequestJSON executa a chamada e decodifica a resposta em out (quando não nil)
func (c *Client) RequestJSON(ctx context.Context, req Request, out interface{}) error {
	url := JoinURL(req.BaseURL, req.Path)
	if url == "" {
		return ErrMissingAPIBase
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	r := c.http.R().SetContext(ctx)
	if req.AuthToken != "" {
		r.SetAuthToken(req.AuthToken)
	}
	if req.TenantID != "" {
		r.SetHeader("X-Org-Id", req.TenantID)
	}
	for k, v := range req.Headers {
		r.SetHeader(k, v)
	}
	if len(req.Query) > 0 {
		r.SetQueryParams(req.Query)
	}
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}

	start := time.Now()
	resp, err := r.Execute(method, url)
	if err != nil {
		c.observe(req.Module, method, 0, time.Since(start))
		return fmt.Errorf("chamada remota %s %s: %w", method, req.Path, err)
	}
	c.observe(req.Module, method, resp.StatusCode(), time.Since(start))

	if resp.StatusCode() >= http.StatusBadRequest {
		return &HTTPError{Status: resp.StatusCode(), Body: resp.String()}
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("resposta remota inválida em %s: %w", req.Path, err)
	}
	return nil
}

func (c *Client) observe(module, method string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer(module, method, status, elapsed)
	}
}
