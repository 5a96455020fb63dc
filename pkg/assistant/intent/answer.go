package intent

import (
	"strconv"
	"strings"

	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
)

// Um estágio livre, fora da tabela e sem aspas, precisa ser curto
const (
	maxStageWords = 2
	maxStageLen   = 32
)

// campos numéricos que aceitam apenas um inteiro como resposta
var idFields = map[string]bool{
	"producto_id":     true,
	"almacen_id":      true,
	"almacen_origen":  true,
	"almacen_destino": true,
}

// ParseFieldAnswer interpreta a resposta a uma pergunta pendente. Devolve os campos
// a mesclar e false quando a resposta não serve para o campo solicitado.
func ParseFieldAnswer(field, raw string) (tool.Fields, bool) {
	raw = strings.TrimSpace(raw)
	text := Normalize(raw)
	if text == "" {
		return nil, false
	}
	in := Input{Text: text, Raw: raw}

	switch {
	case field == "email":
		v, ok := ExtractEmail(text)
		return single(field, v, ok)
	case field == "rol":
		v, ok := ExtractRole(text)
		return single(field, v, ok)
	case field == "stage":
		if v, ok := ExtractStage(in); ok {
			return tool.Fields{field: v}, true
		}
		if v, ok := ExtractQuoted(raw); ok {
			return tool.Fields{field: v}, true
		}
		if len(strings.Fields(text)) > maxStageWords || len(raw) > maxStageLen {
			return nil, false
		}
		return tool.Fields{field: raw}, true
	case field == "cantidad":
		n, ok := ExtractQuantity(text)
		if !ok {
			return nil, false
		}
		return tool.Fields{field: n}, true
	case field == "task_id":
		// tarea: aceita o id ou o título
		if n, ok := parseID(text, "tarea"); ok {
			return tool.Fields{"task_id": n}, true
		}
		return tool.Fields{"task_title": unquote(raw)}, true
	case field == "lead_id":
		// lead: aceita o id ou o nome
		if n, ok := parseID(text, "lead", "cliente"); ok {
			return tool.Fields{"lead_id": n}, true
		}
		return tool.Fields{"lead_name": unquote(raw)}, true
	case field == "producto":
		if n, ok := parseID(text, "producto"); ok {
			return tool.Fields{"producto_id": n}, true
		}
		return tool.Fields{"producto_nombre": unquote(raw)}, true
	case idFields[field]:
		n, ok := parseID(text, "almacen", "deposito", "producto", "lead")
		if !ok {
			return nil, false
		}
		return tool.Fields{field: n}, true
	default:
		v := unquote(raw)
		if v == "" {
			return nil, false
		}
		return tool.Fields{field: v}, true
	}
}

func single(field, v string, ok bool) (tool.Fields, bool) {
	if !ok {
		return nil, false
	}
	return tool.Fields{field: v}, true
}

// parseID aceita "#12", "12" ou "<keyword> 12"
func parseID(text string, keywords ...string) (int64, bool) {
	for _, kw := range keywords {
		if n, ok := ExtractID(text, kw); ok {
			return n, true
		}
	}
	t := strings.TrimPrefix(strings.TrimSpace(text), "#")
	if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil && n > 0 {
		return n, true
	}
	if m := firstIntRe.FindString(text); m != "" && len(strings.Fields(text)) <= 3 {
		if n, err := strconv.ParseInt(m, 10, 64); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

func unquote(raw string) string {
	if v, ok := ExtractQuoted(raw); ok {
		return v
	}
	return strings.TrimSpace(raw)
}
