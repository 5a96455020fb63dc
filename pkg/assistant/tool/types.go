package tool

import "context"

// Name identifica uma ferramenta no formato <modulo>.<acao>
type Name string

// Ferramentas suportadas pelo assistente
const (
	InviteUser       Name = "core.invite_user"
	ResendInvite     Name = "core.resend_invite"
	ResetPassword    Name = "core.reset_password"
	MarkTaskDone     Name = "crm.mark_task_done"
	ChangeLeadStatus Name = "crm.change_lead_status"
	CreateClient     Name = "crm.create_client"
	CreateProduct    Name = "stock.create_product"
	RegisterMovement Name = "stock.register_movement"
)

// AllNames lista todas as ferramentas que o registro precisa conhecer
var AllNames = []Name{
	InviteUser,
	ResendInvite,
	ResetPassword,
	MarkTaskDone,
	ChangeLeadStatus,
	CreateClient,
	CreateProduct,
	RegisterMovement,
}

// Status é o resultado de uma fase de plan ou execute
type Status string

const (
	StatusOK       Status = "ok"
	StatusQuestion Status = "question"
	StatusError    Status = "error"
)

// EntityContext carrega as entidades abertas na interface do usuário
type EntityContext struct {
	TaskID           int64 `json:"task_id,omitempty"`
	LeadID           int64 `json:"lead_id,omitempty"`
	ProductID        int64 `json:"product_id,omitempty"`
	AlmacenID        int64 `json:"almacen_id,omitempty"`
	AlmacenOrigenID  int64 `json:"almacen_origen_id,omitempty"`
	AlmacenDestinoID int64 `json:"almacen_destino_id,omitempty"`
}

// Caller é o contexto explícito de quem fala com o assistente
type Caller struct {
	TenantID      string
	UserID        string
	Email         string
	Role          string
	Superadmin    bool
	AuthToken     string
	CurrentModule string
	CurrentRoute  string
	Locale        string
	RequestID     string
	Entity        EntityContext
}

// HasIdentity informa se há id ou email para escopar o estado pendente
func (c Caller) HasIdentity() bool {
	return c.UserID != "" || c.Email != ""
}

// PlanResult é a saída da fase sem efeitos colaterais
type PlanResult struct {
	Status Status

	// Fields substitui os campos de entrada quando o plan os normaliza ou resolve
	Fields Fields

	Preview  map[string]interface{}
	Message  string
	Question string

	// AskField nomeia o campo que a pergunta solicita, quando houver
	AskField string

	Steps    []string
	DeepLink string
	Debug    map[string]interface{}
}

// ExecResult é a saída da fase que altera o sistema remoto
type ExecResult struct {
	Status   Status
	Result   map[string]interface{}
	Message  string
	DeepLink string
	Debug    map[string]interface{}
}

// PlanFunc valida e gera o preview de uma ação
type PlanFunc func(ctx context.Context, fields Fields, caller Caller) (*PlanResult, error)

// ExecuteFunc executa a ação já confirmada
type ExecuteFunc func(ctx context.Context, fields Fields, caller Caller) (*ExecResult, error)

// Descriptor descreve uma ferramenta registrada
type Descriptor struct {
	Name     Name
	Module   string
	Action   string
	Required []string
	Plan     PlanFunc
	Execute  ExecuteFunc
}

// Ask cria um PlanResult de pergunta
func Ask(question, field string) *PlanResult {
	return &PlanResult{Status: StatusQuestion, Question: question, AskField: field}
}

// Reject cria um PlanResult de erro de domínio
func Reject(message string) *PlanResult {
	return &PlanResult{Status: StatusError, Message: message}
}

// Failed cria um ExecResult de erro
func Failed(message string, debug map[string]interface{}) *ExecResult {
	return &ExecResult{Status: StatusError, Message: message, Debug: debug}
}
