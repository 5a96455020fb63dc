// Package metrics expõe as métricas Prometheus do assistente.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
)

// Assistant agrupa os coletores do assistente. Implementa assistant.Recorder.
type Assistant struct {
	Messages        *prometheus.CounterVec
	MessageDuration *prometheus.HistogramVec
	ToolCalls       *prometheus.CounterVec
	RemoteRequests  *prometheus.CounterVec
	RemoteDuration  *prometheus.HistogramVec
}

// New cria os coletores e registra em reg
func New(reg prometheus.Registerer) *Assistant {
	m := &Assistant{
		Messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vex",
				Subsystem: "assistant",
				Name:      "messages_total",
				Help:      "Mensagens processadas por rota e tipo de resposta",
			},
			[]string{"route", "response"},
		),
		MessageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "vex",
				Subsystem: "assistant",
				Name:      "message_duration_seconds",
				Help:      "Duração do processamento de uma mensagem",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"route"},
		),
		ToolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vex",
				Subsystem: "assistant",
				Name:      "tool_calls_total",
				Help:      "Chamadas de plan/execute por ferramenta e status",
			},
			[]string{"tool", "phase", "status"},
		),
		RemoteRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vex",
				Subsystem: "assistant",
				Name:      "remote_requests_total",
				Help:      "Requisições aos módulos remotos",
			},
			[]string{"module", "method", "status"},
		),
		RemoteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "vex",
				Subsystem: "assistant",
				Name:      "remote_duration_seconds",
				Help:      "Latência das requisições aos módulos remotos",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
			},
			[]string{"module"},
		),
	}
	reg.MustRegister(m.Messages, m.MessageDuration, m.ToolCalls, m.RemoteRequests, m.RemoteDuration)
	return m
}

// ObserveMessage registra uma mensagem processada
func (m *Assistant) ObserveMessage(route, response string, elapsed time.Duration) {
	m.Messages.WithLabelValues(route, response).Inc()
	m.MessageDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveTool registra uma chamada de ferramenta
func (m *Assistant) ObserveTool(name tool.Name, phase string, status tool.Status) {
	m.ToolCalls.WithLabelValues(string(name), phase, string(status)).Inc()
}

// ObserveRemote tem a assinatura de remote.Observer. Status 0 indica falha de transporte.
func (m *Assistant) ObserveRemote(module, method string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.RemoteRequests.WithLabelValues(module, method, label).Inc()
	m.RemoteDuration.WithLabelValues(module).Observe(elapsed.Seconds())
}
