package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Extratores de campo. Todos são funções puras sobre o texto normalizado
// (ou sobre o texto cru quando precisam preservar maiúsculas).

var (
	emailRe       = regexp.MustCompile(`[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	quotedRe      = regexp.MustCompile(`["“”']([^"“”']+)["“”']`)
	qtyLabelRe    = regexp.MustCompile(`cantidad\s*:?\s*#?\s*(\d+(?:\.\d+)?)`)
	qtyXRe        = regexp.MustCompile(`\bx\s*(\d+(?:\.\d+)?)`)
	qtyUnitsRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:unidades|unidad|u\b)`)
	bareNumberRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
	firstIntRe    = regexp.MustCompile(`(\d+)`)
	ownerRe       = regexp.MustCompile(`\bowner\b|\bdueno\b`)
	adminRe       = regexp.MustCompile(`\badmin\b|\badministrador\b`)
	userRe        = regexp.MustCompile(`\buser\b|\busuario\b`)
	pairRe        = regexp.MustCompile(`desde\s*(?:(?:el\s+)?(?:almacen|deposito)\s*)?#?\s*(\d+)\s*(?:a|al|hasta|hacia)\s*(?:(?:el\s+)?(?:almacen|deposito)\s*)?#?\s*(\d+)`)
	stageQuotedRe = regexp.MustCompile(`(?i)(?:estado|stage|etapa)\s*[:=]?\s*["“”']([^"“”']+)["“”']`)
	productNameRe = regexp.MustCompile(`producto\s+(?:nuevo\s+)?(?:llamado\s+|que\s+se\s+llama\s+)?([a-z0-9 \-_]{3,})`)
	clientNameRe  = regexp.MustCompile(`cliente\s+(?:nuevo\s+)?(?:llamado\s+|que\s+se\s+llama\s+|nombre\s*:?\s*)?([a-z0-9 .&\-_]{3,})`)
	contactRe     = regexp.MustCompile(`(?i)contacto\s*:?\s*["“”']([^"“”']+)["“”']`)
	phoneRe       = regexp.MustCompile(`(?:telefono|tel|celular|cel|whatsapp)\s*:?\s*(\+?[\d][\d \-()]{5,}\d)`)

	// segmentos finais que não fazem parte de um nome livre
	productTailRe = regexp.MustCompile(`\s+(?:(?:en|para|del|al)\s+)?(?:el\s+)?(?:almacen|deposito|cantidad|precio|stock)\b.*$`)
	clientTailRe  = regexp.MustCompile(`\s+(?:(?:con|y)\s+)?(?:el\s+)?(?:email|mail|correo|telefono|tel|celular|contacto)\b.*$`)
)

// stageRule mapeia palavras-chave para o estágio canônico do pipeline
type stageRule struct {
	pattern *regexp.Regexp
	stage   string
}

// A ordem importa: "unqualified" precisa vir antes de "qualified"
var stageTable = []stageRule{
	{regexp.MustCompile(`won|ganad`), "Won"},
	{regexp.MustCompile(`lost|perdid`), "Lost"},
	{regexp.MustCompile(`unqualified|no calif`), "Unqualified"},
	{regexp.MustCompile(`incoming|nuevo`), "Incoming Leads"},
	{regexp.MustCompile(`qualified|calificad`), "Qualified"},
	{regexp.MustCompile(`follow|seguimiento`), "Follow-up Missed"},
	{regexp.MustCompile(`\bbid\b|presupuesto|estimate`), "Bid/Estimate Sent"},
}

// StageTable expõe os estágios canônicos na ordem de avaliação
func StageTable() []string {
	out := make([]string, 0, len(stageTable))
	for _, r := range stageTable {
		out = append(out, r.stage)
	}
	return out
}

// ExtractEmail devolve o primeiro email encontrado
func ExtractEmail(text string) (string, bool) {
	m := emailRe.FindString(strings.ToLower(text))
	return m, m != ""
}

// ExtractID procura "<keyword> #<n>" e devolve n
func ExtractID(text, keyword string) (int64, bool) {
	re := idPattern(keyword)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

var idPatterns = map[string]*regexp.Regexp{}

func init() {
	for _, kw := range []string{"tarea", "lead", "cliente", "producto", "almacen", "deposito", "origen", "destino"} {
		idPatterns[kw] = compileIDPattern(kw)
	}
}

func compileIDPattern(keyword string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(keyword) + `\s*#?\s*(\d+)`)
}

func idPattern(keyword string) *regexp.Regexp {
	if re, ok := idPatterns[keyword]; ok {
		return re
	}
	return compileIDPattern(keyword)
}

// ExtractQuantity tenta rótulo explícito, depois "x<n>", depois "<n> unidades", depois o primeiro número
func ExtractQuantity(text string) (float64, bool) {
	for _, re := range []*regexp.Regexp{qtyLabelRe, qtyXRe, qtyUnitsRe, bareNumberRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			n, err := strconv.ParseFloat(m[1], 64)
			if err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

// ExtractRole reconhece owner, admin e user/usuario
func ExtractRole(text string) (string, bool) {
	switch {
	case ownerRe.MatchString(text):
		return "owner", true
	case adminRe.MatchString(text):
		return "admin", true
	case userRe.MatchString(text):
		return "user", true
	}
	return "", false
}

// ExtractQuoted devolve o primeiro trecho entre aspas do texto cru
func ExtractQuoted(raw string) (string, bool) {
	m := quotedRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}

// ExtractProductName prefere aspas; senão usa o trecho após "producto"
func ExtractProductName(in Input) (string, bool) {
	if v, ok := ExtractQuoted(in.Raw); ok {
		return v, true
	}
	m := productNameRe.FindStringSubmatch(in.Text)
	if m == nil {
		return "", false
	}
	return cleanName(m[1], productTailRe)
}

// ExtractClientName prefere aspas; senão usa o trecho após "cliente"
func ExtractClientName(in Input) (string, bool) {
	if v, ok := ExtractQuoted(in.Raw); ok {
		return v, true
	}
	text := emailRe.ReplaceAllString(in.Text, "")
	m := clientNameRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return cleanName(m[1], clientTailRe)
}

// ExtractContactName lê contacto "Nome"
func ExtractContactName(raw string) (string, bool) {
	m := contactRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}

// ExtractPhone lê um telefone rotulado
func ExtractPhone(text string) (string, bool) {
	m := phoneRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ExtractWarehousePair lê "desde X hasta Y"
func ExtractWarehousePair(text string) (origen, destino int64, ok bool) {
	m := pairRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	o, err1 := strconv.ParseInt(m[1], 10, 64)
	d, err2 := strconv.ParseInt(m[2], 10, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return o, d, true
}

// ExtractStage aceita um valor entre aspas após "estado" ou a tabela de palavras-chave
func ExtractStage(in Input) (string, bool) {
	if m := stageQuotedRe.FindStringSubmatch(in.Raw); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			return v, true
		}
	}
	for _, r := range stageTable {
		if r.pattern.MatchString(in.Text) {
			return r.stage, true
		}
	}
	return "", false
}

func cleanName(v string, tail *regexp.Regexp) (string, bool) {
	v = tail.ReplaceAllString(strings.TrimSpace(v), "")
	v = strings.Trim(strings.TrimSpace(v), ".,;:-_")
	if len(v) < 3 {
		return "", false
	}
	return v, true
}

// helpers que devolvem nil quando o extrator não encontra nada

func optString(v string, ok bool) interface{} {
	if !ok {
		return nil
	}
	return v
}

func optFloat(v float64, ok bool) interface{} {
	if !ok {
		return nil
	}
	return v
}

// firstID devolve o primeiro id encontrado entre as palavras-chave, ou o fallback do contexto
func firstID(text string, fallback int64, keywords ...string) interface{} {
	for _, kw := range keywords {
		if n, ok := ExtractID(text, kw); ok {
			return n
		}
	}
	if fallback > 0 {
		return fallback
	}
	return nil
}
