package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/cabinetworks/quoteflow/internal/quote/presentation"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateQuote(ctx context.Context, data QuoteData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Quote", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	// Quote meta
	meta := []string{
		"Quote number: " + data.Model.QuoteNumber,
		"Date: " + data.Model.CreatedAt.Format("January 2, 2006"),
		"Valid until: " + data.Model.ExpiresAt.Format("January 2, 2006"),
	}
	metaCol := col.New(6)
	for i, line := range meta {
		metaCol.Add(text.New(line, props.Text{Top: float64(i * 4)}))
	}
	m.AddRow(16, metaCol, col.New(6))

	// Addresses
	m.AddRow(36,
		col.New(6).Add(
			text.New(data.CompanyName, props.Text{Style: fontstyle.Bold}),
			text.New(data.CompanyAddress, props.Text{Top: 5}),
			text.New(data.CompanyPhone, props.Text{Top: 10}),
			text.New(data.CompanyEmail, props.Text{Top: 15}),
		),
		col.New(6).Add(
			text.New("Prepared for", props.Text{Style: fontstyle.Bold}),
			text.New(data.CustomerName, props.Text{Top: 5}),
			text.New(data.CustomerAddress, props.Text{Top: 10}),
			text.New(data.CustomerEmail, props.Text{Top: 15}),
		),
	)

	// Items table
	m.AddRow(10,
		text.NewCol(2, "Item", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range data.Model.Items {
		m.AddRow(8,
			text.NewCol(2, item.ProductCode, props.Text{Size: 9}),
			text.NewCol(4, item.ProductName, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, presentation.Money(item.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, presentation.Money(item.LineTotal), props.Text{Size: 9, Align: align.Right}),
		)
	}

	if data.Model.View == presentation.ViewInstaller {
		addInstallerTotals(m, data.Model)
	} else {
		addClientTotals(m, data.Model)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

func addClientTotals(m core.Maroto, model presentation.RenderModel) {
	if model.DisplayMsrp != nil {
		totalRow(m, "Market rate", presentation.Money(*model.DisplayMsrp), false)
	}
	if model.PackagePrice != nil {
		totalRow(m, "Your cabinet package", presentation.Money(*model.PackagePrice), false)
	}
	totalRow(m, fmt.Sprintf("Tax (%.2f%%)", model.TaxRate*100), presentation.Money(model.TaxAmount), false)
	totalRow(m, "Total", presentation.Money(model.Total), true)

	if model.DisplaySavings != nil {
		m.AddRow(14,
			text.NewCol(12, "You save "+presentation.Money(*model.DisplaySavings)+" off the market rate!", props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Top:   4,
			}),
		)
	}
}

func addInstallerTotals(m core.Maroto, model presentation.RenderModel) {
	if model.WholesaleCost != nil {
		totalRow(m, "Wholesale cost", presentation.Money(*model.WholesaleCost), false)
	}
	if model.ClientCabinetPrice != nil {
		totalRow(m, "Client cabinet price", presentation.Money(*model.ClientCabinetPrice), false)
	}
	if model.InstallationFee != nil {
		totalRow(m, "Installation", presentation.Money(*model.InstallationFee), false)
	}
	if model.MiscExpenses != nil {
		totalRow(m, "Misc expenses", presentation.Money(*model.MiscExpenses), false)
	}
	if model.ClientSubtotal != nil {
		totalRow(m, "Client subtotal", presentation.Money(*model.ClientSubtotal), false)
	}
	totalRow(m, fmt.Sprintf("Tax (%.2f%%)", model.TaxRate*100), presentation.Money(model.TaxAmount), false)
	totalRow(m, "Client total", presentation.Money(model.Total), true)

	if model.Profit != nil {
		label := "Profit"
		if model.MarginPercent != nil {
			label = fmt.Sprintf("Profit (%.1f%% margin)", *model.MarginPercent)
		}
		totalRow(m, label, presentation.Money(*model.Profit), true)
	}
	if model.BelowCost {
		m.AddRow(12,
			text.NewCol(12, "WARNING: this quote is priced below wholesale cost", props.Text{
				Size:  11,
				Style: fontstyle.Bold,
				Top:   3,
			}),
		)
	}
}

func totalRow(m core.Maroto, label, amount string, bold bool) {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	m.AddRow(8,
		col.New(6),
		text.NewCol(3, label, props.Text{Size: 9, Style: style}),
		text.NewCol(3, amount, props.Text{Size: 9, Style: style, Align: align.Right}),
	)
}
