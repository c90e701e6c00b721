package render

import "github.com/adpopescu/panex-api/internal/application/export"

var _ export.DocumentRenderer = (*Renderer)(nil)

// Renderer bundles the XML and CSV writers behind the single port the export
// usecase renders through.
type Renderer struct {
	*XMLRenderer
	*CSVRenderer
}

// NewRenderer builds the combined renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		XMLRenderer: NewXMLRenderer(),
		CSVRenderer: NewCSVRenderer(),
	}
}
