package passwordreset

import "context"

// Repository define as operações sobre pedidos de redefinição
type Repository interface {
	// Issue invalida os pedidos abertos do email e grava o novo, na mesma transação
	Issue(ctx context.Context, r *Reset) error
}
