package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrQuotaExceeded       = errors.New("cuota mensual de pedidos excedida")
	ErrOrderNumberConflict = errors.New("número de pedido en conflicto")
	ErrPolicyViolation     = errors.New("el pedido ya no admite mutaciones automáticas")
)

// ShortfallMode indica si el faltante ocurrió agregando cantidad ("add")
// o fijando una cantidad nueva ("set").
const (
	ShortfallModeAdd = "add"
	ShortfallModeSet = "set"
)

// ShortfallLine detalle por línea de un faltante de stock, para que el
// agente pueda renegociar con el cliente línea por línea.
type ShortfallLine struct {
	ProductID string
	VariantID string
	Name      string
	Available int
	Requested int
	Mode      string // add | set
}

// StockShortfallError agrupa todas las líneas con stock insuficiente de una
// operación. La operación completa se revierte: nunca hay aplicación parcial.
type StockShortfallError struct {
	Lines []ShortfallLine
}

func (e *StockShortfallError) Error() string {
	return fmt.Sprintf("stock insuficiente en %d línea(s)", len(e.Lines))
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *StockShortfallError) Unwrap() error { return ErrInsufficientStock }

// PolicyViolationError indica que el estado del pedido no permite la
// mutación; Handoff=true instruye al caller a escalar a un operador humano.
type PolicyViolationError struct {
	Status  string
	Reason  string
	Handoff bool
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("pedido en estado %s: %s", e.Status, e.Reason)
}

func (e *PolicyViolationError) Unwrap() error { return ErrPolicyViolation }
