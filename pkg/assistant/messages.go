package assistant

import "github.com/hugohenrick/vex-core/pkg/assistant/tool"

// Textos devolvidos ao usuário
const (
	msgInternal          = "Error interno del asistente"
	msgHelp              = `Decime que queres hacer. Ej: "Invitar usuario email@dominio.com como admin".`
	msgToolUnavailable   = "Accion no disponible."
	msgToolGone          = "La accion ya no esta disponible."
	msgForbidden         = "No tenes permisos para eso."
	msgModuleDisabled    = "El modulo %s no esta habilitado en tu organizacion."
	msgPlanQuestion      = "Necesito un dato mas."
	msgPlanError         = "No puedo avanzar con eso."
	msgPreview           = "Este es el preview. Queres confirmar?"
	msgConfirmNotFound   = "No encontre esa confirmacion."
	msgAlreadyProcessed  = "Esa accion ya fue procesada."
	msgConfirmExpired    = "La confirmacion expiro. Pedi de nuevo."
	msgNotOwner          = "Esa confirmacion no pertenece a tu usuario."
	msgExecError         = "No pude completar la accion."
	msgDone              = "Listo, ya lo hice."
	msgSummaryError      = "No pude armar el resumen con los datos actuales."
	msgQuestionCancelled = "Listo, deje de lado esa pregunta."
	msgQuestionAnswered  = "Esa pregunta ya fue respondida."
	msgMissingDefault    = "Necesito mas datos para seguir."
)

var missingQuestions = map[string]string{
	"email":           "Necesito el email del usuario.",
	"rol":             "Que rol queres? (admin o user)",
	"task_id":         "Necesito el id de la tarea.",
	"lead_id":         "Necesito el id del lead.",
	"stage":           "A que estado queres pasar el lead? (por ejemplo: Qualified, Won, Lost)",
	"nombre":          "Como se llama el producto?",
	"almacen_id":      "Necesito el id del almacen para crear el producto.",
	"producto_id":     "Necesito el id del producto.",
	"almacen_origen":  "Necesito el id del almacen de origen.",
	"almacen_destino": "Necesito el id del almacen de destino.",
	"cantidad":        "Cuanta cantidad?",
}

// perguntas que dependem da ferramenta
var toolQuestions = map[tool.Name]map[string]string{
	tool.CreateClient: {"nombre": "Como se llama el cliente?"},
}

func missingQuestion(name tool.Name, field string) string {
	if q, ok := toolQuestions[name][field]; ok {
		return q
	}
	if q, ok := missingQuestions[field]; ok {
		return q
	}
	return msgMissingDefault
}

// palavras que encerram a pergunta pendente
var cancelWords = map[string]bool{
	"cancelar":  true,
	"cancela":   true,
	"cancelalo": true,
	"olvidalo":  true,
	"dejalo":    true,
}
