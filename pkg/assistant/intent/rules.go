package intent

import (
	"regexp"
	"strings"

	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
)

// Rule é uma regra de classificação. A primeira regra que casar vence.
type Rule struct {
	Name  string
	Match func(text string) bool
	Build func(in Input) Intent
}

var (
	createVerbRe = regexp.MustCompile(`\b(crear|crea|creame|cargar|carga|agregar|agrega|alta|registrar|registra|dar de alta)\b`)
	capabilityRe = regexp.MustCompile(`^(ayuda|help|\?)$|\bque (podes|puedes|sabes) hacer\b|\bcomandos\b|\bque hace(s)?\b|\bcapacidades\b`)
	stageWordRe  = regexp.MustCompile(`\b(estado|stage|etapa|mover|move|mueve|pasar|pasa|pasalo|cambiar|cambia|marcar|marca)\b`)
	taskDoneRe   = regexp.MustCompile(`\b(hecha|hecho|completa|completada|completar|terminada|terminar|finalizada|finalizar|lista|listo|done)\b`)
	movementRe   = regexp.MustCompile(`\b(movimiento|traslad\w*|transferi\w*|entrada|salida|mover|mueve)\b`)
	summaryHint  = regexp.MustCompile(`\b(resumen|resumi\w*|summary|pendientes|agenda)\b`)
	moduleWordRe = regexp.MustCompile(`\b(crm|stock|flows|core)\b`)
)

func has(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func summaryRule(name, kind string, match func(string) bool) Rule {
	return Rule{
		Name:  name,
		Match: match,
		Build: func(Input) Intent { return Intent{Kind: KindSummary, SummaryKind: kind} },
	}
}

func actionIntent(name tool.Name, fields tool.Fields) Intent {
	return Intent{Kind: KindAction, Tool: name, Fields: fields}
}

// rules é a tabela ordenada de classificação
var rules = []Rule{
	summaryRule("summary.top5_today", SummaryTop5Today, func(t string) bool {
		return has(t, "top 5", "top5", "5 prioridades", "cinco prioridades")
	}),
	summaryRule("summary.overdue", SummaryOverdue, func(t string) bool {
		return has(t, "vencid", "atrasad", "overdue")
	}),
	summaryRule("summary.cold_leads", SummaryColdLeads, func(t string) bool {
		return has(t, "frio", "fria", "cold leads", "sin actividad")
	}),
	summaryRule("summary.upcoming", SummaryUpcoming, func(t string) bool {
		return has(t, "vencimiento", "proxim", "upcoming", "que viene")
	}),
	summaryRule("summary.weekly", SummaryWeekly, func(t string) bool {
		return has(t, "semana", "semanal", "weekly")
	}),
	summaryRule("summary.daily", SummaryDaily, func(t string) bool {
		return has(t, "hoy", "del dia", "diario", "daily") && (summaryHint.MatchString(t) || has(t, "que tengo", "tareas"))
	}),
	{
		Name:  "info.capabilities",
		Match: func(t string) bool { return capabilityRe.MatchString(t) },
		Build: func(in Input) Intent {
			kind := InfoCapabilities
			if m := moduleWordRe.FindString(in.Text); m != "" {
				kind = m
			}
			return Intent{Kind: KindInfo, InfoKind: kind}
		},
	},
	{
		Name: "crm.create_client",
		Match: func(t string) bool {
			return createVerbRe.MatchString(t) && has(t, "cliente") && !has(t, "estado", "stage", "etapa")
		},
		Build: func(in Input) Intent {
			name, okName := ExtractClientName(in)
			email, okEmail := ExtractEmail(in.Text)
			phone, okPhone := ExtractPhone(in.Text)
			contact, okContact := ExtractContactName(in.Raw)
			return actionIntent(tool.CreateClient, tool.Fields{
				"nombre":          optString(name, okName),
				"email":           optString(email, okEmail),
				"telefono":        optString(phone, okPhone),
				"contacto_nombre": optString(contact, okContact),
			})
		},
	},
	{
		Name: "stock.create_product",
		Match: func(t string) bool {
			return createVerbRe.MatchString(t) && has(t, "producto") && !movementRe.MatchString(t)
		},
		Build: func(in Input) Intent {
			name, ok := ExtractProductName(in)
			return actionIntent(tool.CreateProduct, tool.Fields{
				"nombre":     optString(name, ok),
				"almacen_id": firstID(in.Text, in.Entity.AlmacenID, "almacen", "deposito"),
			})
		},
	},
	{
		Name:  "core.resend_invite",
		Match: func(t string) bool { return has(t, "reenvi", "reenvia", "volver a enviar") && has(t, "invit") },
		Build: func(in Input) Intent {
			email, ok := ExtractEmail(in.Text)
			return actionIntent(tool.ResendInvite, tool.Fields{"email": optString(email, ok)})
		},
	},
	{
		Name: "core.reset_password",
		Match: func(t string) bool {
			return has(t, "reset", "resetear", "restablecer", "blanquear", "recuperar") &&
				has(t, "password", "contrasena", "clave")
		},
		Build: func(in Input) Intent {
			email, ok := ExtractEmail(in.Text)
			return actionIntent(tool.ResetPassword, tool.Fields{"email": optString(email, ok)})
		},
	},
	{
		Name:  "core.invite_user",
		Match: func(t string) bool { return has(t, "invitar", "invitacion", "invita") },
		Build: func(in Input) Intent {
			email, okEmail := ExtractEmail(in.Text)
			role, okRole := ExtractRole(emailRe.ReplaceAllString(in.Text, ""))
			return actionIntent(tool.InviteUser, tool.Fields{
				"email": optString(email, okEmail),
				"rol":   optString(role, okRole),
			})
		},
	},
	{
		Name:  "crm.mark_task_done",
		Match: func(t string) bool { return has(t, "tarea", "task") && taskDoneRe.MatchString(t) },
		Build: func(in Input) Intent {
			title, ok := ExtractQuoted(in.Raw)
			return actionIntent(tool.MarkTaskDone, tool.Fields{
				"task_id":    firstID(in.Text, in.Entity.TaskID, "tarea", "task"),
				"task_title": optString(title, ok),
			})
		},
	},
	{
		Name:  "crm.change_lead_status",
		Match: func(t string) bool { return has(t, "lead", "cliente", "oportunidad") && stageWordRe.MatchString(t) },
		Build: func(in Input) Intent {
			stage, ok := ExtractStage(in)
			fields := tool.Fields{
				"lead_id":   firstID(in.Text, in.Entity.LeadID, "lead", "cliente", "oportunidad"),
				"lead_name": nil,
				"stage":     optString(stage, ok),
			}
			// aspas fora de "estado" nomeiam o lead
			if !stageQuotedRe.MatchString(in.Raw) {
				if name, ok := ExtractQuoted(in.Raw); ok {
					fields["lead_name"] = name
				}
			}
			return actionIntent(tool.ChangeLeadStatus, fields)
		},
	},
	{
		Name:  "stock.register_movement",
		Match: func(t string) bool { return movementRe.MatchString(t) },
		Build: func(in Input) Intent {
			fields := tool.Fields{
				"producto_id":     firstID(in.Text, in.Entity.ProductID, "producto"),
				"producto_nombre": nil,
				"cantidad":        optFloat(ExtractQuantity(withoutIDs(in.Text))),
				"almacen_origen":  firstID(in.Text, in.Entity.AlmacenOrigenID, "origen"),
				"almacen_destino": firstID(in.Text, in.Entity.AlmacenDestinoID, "destino"),
			}
			if o, d, ok := ExtractWarehousePair(in.Text); ok {
				fields["almacen_origen"] = o
				fields["almacen_destino"] = d
			}
			if name, ok := ExtractQuoted(in.Raw); ok {
				fields["producto_nombre"] = name
			}
			return actionIntent(tool.RegisterMovement, fields)
		},
	},
}

var idRefRe = regexp.MustCompile(`(?:producto|almacen|deposito|origen|destino|desde|hasta|hacia|\ba\b|\bal\b)\s*#?\s*\d+`)

// withoutIDs remove referências a ids para que a quantidade não seja confundida com um id
func withoutIDs(text string) string {
	return idRefRe.ReplaceAllString(text, " ")
}

// Rules devolve a tabela de regras na ordem de avaliação
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Extract classifica a mensagem. É uma função pura: a mesma entrada produz sempre a mesma saída.
func Extract(message string, entity tool.EntityContext) Intent {
	in := Input{Text: Normalize(message), Raw: strings.TrimSpace(message), Entity: entity}
	if in.Text == "" {
		return Help()
	}
	// emails não participam da classificação ("ana.frias@x.com" não é lead frio)
	match := strings.TrimSpace(emailRe.ReplaceAllString(in.Text, " "))
	for _, r := range rules {
		if r.Match(match) {
			it := r.Build(in)
			it.Rule = r.Name
			return it
		}
	}
	return Help()
}
