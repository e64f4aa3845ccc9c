package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP. Para faltantes de stock incluye el
// detalle por línea; Handoff=true indica que el agente debe escalar a un
// operador humano en lugar de reintentar.
type ErrorResponse struct {
	Code       string          `json:"code"`
	Message    string          `json:"message"`
	Handoff    bool            `json:"handoff,omitempty"`
	Shortfalls []ShortfallLine `json:"shortfalls,omitempty"`
}

// ShortfallLine faltante de stock de una línea.
type ShortfallLine struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Name      string `json:"name"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
	Mode      string `json:"mode"` // add | set
}
