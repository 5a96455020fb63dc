package intent

import "github.com/hugohenrick/vex-core/pkg/assistant/tool"

// Kind é o tipo da intenção detectada
type Kind string

const (
	KindHelp    Kind = "help"
	KindSummary Kind = "summary"
	KindInfo    Kind = "info"
	KindAction  Kind = "action"
)

// Tipos de resumo reconhecidos
const (
	SummaryDaily     = "daily"
	SummaryWeekly    = "weekly"
	SummaryOverdue   = "overdue"
	SummaryUpcoming  = "upcoming"
	SummaryColdLeads = "cold_leads"
	SummaryTop5Today = "top5_today"
)

// InfoCapabilities é o tipo de info que lista o que o assistente sabe fazer
const InfoCapabilities = "capabilities"

// Intent representa a intenção extraída de uma mensagem. Nunca é persistida.
type Intent struct {
	Kind Kind `json:"kind"`

	// SummaryKind é preenchido para KindSummary
	SummaryKind string `json:"summary_kind,omitempty"`

	// InfoKind é preenchido para KindInfo (capabilities ou o nome de um módulo)
	InfoKind string `json:"info_kind,omitempty"`

	// Tool e Fields são preenchidos para KindAction
	Tool   tool.Name   `json:"tool,omitempty"`
	Fields tool.Fields `json:"fields,omitempty"`

	// Rule é o nome da regra que classificou a mensagem
	Rule string `json:"rule,omitempty"`
}

// Help devolve a intenção de ajuda
func Help() Intent {
	return Intent{Kind: KindHelp, Rule: "help"}
}

// Input é a mensagem já normalizada junto com o contexto da conversa
type Input struct {
	// Text é a mensagem aparada, em minúsculas e sem acentos
	Text string

	// Raw é a mensagem apenas aparada, usada para preservar nomes entre aspas
	Raw string

	Entity tool.EntityContext
}
