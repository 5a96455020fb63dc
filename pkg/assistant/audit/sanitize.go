package audit

import (
	"encoding/json"
	"strings"
)

// Redacted substitui valores sensíveis
const Redacted = "[REDACTED]"

// profundidade máxima percorrida; abaixo disso o valor segue como está
const maxDepth = 4

var sensitiveKeys = []string{
	"password",
	"new_password",
	"old_password",
	"token",
	"reset_token",
	"confirm_token",
	"access_token",
	"refresh_token",
	"secret",
	"jwt",
}

var sensitiveHeaders = map[string]bool{
	"authorization":    true,
	"cookie":           true,
	"set-cookie":       true,
	"x-api-key":        true,
	"x-auth-token":     true,
	"x-webhook-secret": true,
}

// IsSensitiveKey informa se a chave contém algum dos termos sensíveis
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, needle := range sensitiveKeys {
		if strings.Contains(k, needle) {
			return true
		}
	}
	return false
}

// SanitizeHeaders mascara cabeçalhos de credenciais
func SanitizeHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if sensitiveHeaders[strings.ToLower(k)] {
			out[k] = Redacted
			continue
		}
		out[k] = v
	}
	return out
}

// Sanitize devolve uma cópia do valor com as chaves sensíveis mascaradas.
// Valores que não são mapas ou listas passam por JSON antes da varredura.
func Sanitize(v interface{}) interface{} {
	return sanitize(plain(v), 0)
}

func plain(v interface{}) interface{} {
	switch x := v.(type) {
	case nil, string, bool, float64, int, int64, json.Number:
		return v
	case map[string]interface{}, []interface{}:
		return x
	}
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

func sanitize(v interface{}, depth int) interface{} {
	if v == nil || depth > maxDepth {
		return v
	}
	switch x := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, val := range x {
			if IsSensitiveKey(k) {
				out[k] = Redacted
				continue
			}
			out[k] = sanitize(plain(val), depth+1)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, val := range x {
			out[i] = sanitize(plain(val), depth+1)
		}
		return out
	}
	return v
}
