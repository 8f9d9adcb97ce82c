package dto

// Límites de página para los listados de tickets y catálogo.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest paginación por query string (?limit=&offset=).
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize aplica el tamaño por defecto, acota limit a MaxPageSize y offset a >= 0.
func (p PageRequest) Normalize() PageRequest {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Response metadatos de la página efectivamente usada.
func (p PageRequest) Response() PageResponse {
	return PageResponse{Limit: p.Limit, Offset: p.Offset}
}

type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP: código estable más motivo legible.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
