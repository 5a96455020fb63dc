package assistant

import "github.com/hugohenrick/vex-core/pkg/assistant/tool"

// ResponseType discrimina a resposta do assistente
type ResponseType string

// Tipos de resposta
const (
	TypeHelp          ResponseType = "help"
	TypeMessage       ResponseType = "message"
	TypeQuestion      ResponseType = "question"
	TypeError         ResponseType = "error"
	TypeActionPreview ResponseType = "action_preview"
	TypeActionResult  ResponseType = "action_result"
	TypeSummary       ResponseType = "summary"
)

// Response é a resposta de uma mensagem. Os campos preenchidos dependem de Type.
type Response struct {
	Type ResponseType `json:"type"`
	Text string       `json:"text"`

	// Field é o campo solicitado por uma pergunta
	Field string `json:"field,omitempty"`

	Action         tool.Name              `json:"action,omitempty"`
	PayloadPreview map[string]interface{} `json:"payload_preview,omitempty"`
	ConfirmToken   string                 `json:"confirm_token,omitempty"`
	Steps          []string               `json:"steps,omitempty"`
	Result         map[string]interface{} `json:"result,omitempty"`

	SummaryType string        `json:"summary_type,omitempty"`
	Items       []interface{} `json:"items,omitempty"`

	DeepLink      string                 `json:"deep_link,omitempty"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
	Debug         map[string]interface{} `json:"debug,omitempty"`
}

func message(text string) *Response {
	return &Response{Type: TypeMessage, Text: text}
}

func failure(text string) *Response {
	return &Response{Type: TypeError, Text: text}
}

func question(text, field string) *Response {
	return &Response{Type: TypeQuestion, Text: text, Field: field}
}

func internalError(correlationID string) *Response {
	return &Response{Type: TypeError, Text: msgInternal, CorrelationID: correlationID}
}

// IsInternal informa se a resposta é o erro interno opaco
func (r *Response) IsInternal() bool {
	return r.Type == TypeError && r.Text == msgInternal
}
