package pdf

import (
	"context"
	"io"

	"github.com/cabinetworks/quoteflow/internal/quote/presentation"
)

// QuoteData carries everything a quote document needs. The render
// model decides which figures appear; company and customer blocks are
// the same for both audiences.
type QuoteData struct {
	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CompanyEmail   string

	CustomerName    string
	CustomerEmail   string
	CustomerAddress string

	Model presentation.RenderModel
}

type Provider interface {
	GenerateQuote(ctx context.Context, data QuoteData) (io.Reader, error)
}
