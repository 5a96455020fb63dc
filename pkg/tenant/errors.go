package tenant

import "errors"

// ErrTenantNotSpecified ocorre quando a requisição não identifica a organização
var ErrTenantNotSpecified = errors.New("organização não especificada")
