package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	customerdomain "github.com/cabinetworks/quoteflow/internal/customer/domain"
	"github.com/cabinetworks/quoteflow/internal/pricing"
	"github.com/cabinetworks/quoteflow/internal/providers/email"
	"github.com/cabinetworks/quoteflow/internal/providers/pdf"
	quotedomain "github.com/cabinetworks/quoteflow/internal/quote/domain"
	"github.com/cabinetworks/quoteflow/internal/quote/presentation"
	"github.com/cabinetworks/quoteflow/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type quoteItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type createQuoteRequest struct {
	CustomerID         string             `json:"customer_id"`
	CollectionID       string             `json:"collection_id"`
	StyleID            string             `json:"style_id"`
	Items              []quoteItemRequest `json:"items"`
	MarkupPercent      *float64           `json:"markup_percent"`
	ClientCabinetPrice *float64           `json:"client_cabinet_price"`
	InstallationFee    float64            `json:"installation_fee"`
	MiscExpenses       float64            `json:"misc_expenses"`
	TaxRate            *float64           `json:"tax_rate"`
	Notes              string             `json:"notes"`
}

func (s *Server) CreateQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.Create(c.Request.Context(), quotedomain.CreateQuoteRequest{
		CustomerID:         strings.TrimSpace(req.CustomerID),
		CollectionID:       strings.TrimSpace(req.CollectionID),
		StyleID:            strings.TrimSpace(req.StyleID),
		Items:              toItemInputs(req.Items),
		MarkupPercent:      req.MarkupPercent,
		ClientCabinetPrice: req.ClientCabinetPrice,
		InstallationFee:    req.InstallationFee,
		MiscExpenses:       req.MiscExpenses,
		TaxRate:            req.TaxRate,
		Notes:              req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListQuotes(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status     string `form:"status"`
		CustomerID string `form:"customer_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.List(c.Request.Context(), quotedomain.ListQuoteRequest{
		PageToken:  query.PageToken,
		PageSize:   int32(query.PageSize),
		Status:     quotedomain.Status(strings.ToUpper(strings.TrimSpace(query.Status))),
		CustomerID: strings.TrimSpace(query.CustomerID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetQuoteByID(c *gin.Context) {
	resp, err := s.quoteSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateQuoteItemsRequest struct {
	Items []quoteItemRequest `json:"items"`
}

func (s *Server) UpdateQuoteItems(c *gin.Context) {
	var req updateQuoteItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.UpdateItems(c.Request.Context(), quotedomain.UpdateItemsRequest{
		ID:    strings.TrimSpace(c.Param("id")),
		Items: toItemInputs(req.Items),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateQuoteStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateQuoteStatus(c *gin.Context) {
	var req updateQuoteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.UpdateStatus(c.Request.Context(), quotedomain.UpdateStatusRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Status: quotedomain.Status(strings.ToUpper(strings.TrimSpace(req.Status))),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DuplicateQuote(c *gin.Context) {
	resp, err := s.quoteSvc.Duplicate(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteQuote(c *gin.Context) {
	if err := s.quoteSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) GetQuoteView(c *gin.Context) {
	view, err := presentation.ParseView(c.DefaultQuery("audience", string(presentation.ViewClient)))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	detail, err := s.quoteSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	model := presentation.Project(detail.Quote, detail.Items, view, s.renderPolicy())
	c.JSON(http.StatusOK, gin.H{"data": model})
}

func (s *Server) GetQuotePDF(c *gin.Context) {
	view, err := presentation.ParseView(c.DefaultQuery("audience", string(presentation.ViewClient)))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	detail, err := s.quoteSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data, err := s.buildQuotePDFData(c, detail, view)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdfProvider.GenerateQuote(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("%s-%s.pdf", detail.Quote.QuoteNumber, view)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", doc)
}

// SendQuote emails the client PDF to the customer and marks the quote
// as sent. The status change happens even with the no-op mail provider
// so the lifecycle is usable without SMTP.
func (s *Server) SendQuote(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	detail, err := s.quoteSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	customer, err := s.customerSvc.GetByID(c.Request.Context(), customerdomain.GetCustomerRequest{
		ID: detail.Quote.CustomerID.String(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data, err := s.buildQuotePDFData(c, detail, presentation.ViewClient)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdfProvider.GenerateQuote(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var attachments []email.Attachment
	if reader != nil {
		doc, err := io.ReadAll(reader)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		attachments = append(attachments, email.Attachment{
			Filename: detail.Quote.QuoteNumber + ".pdf",
			MIMEType: "application/pdf",
			Content:  doc,
		})
	}

	subject := fmt.Sprintf("Your cabinet quote %s from %s", detail.Quote.QuoteNumber, data.CompanyName)
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your quote %s is attached.</p>", customer.Name, detail.Quote.QuoteNumber)
	if err := s.mailProvider.Send(c.Request.Context(), []string{customer.Email}, subject, body, attachments...); err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.quoteSvc.UpdateStatus(c.Request.Context(), quotedomain.UpdateStatusRequest{
		ID:     id,
		Status: quotedomain.StatusSent,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) buildQuotePDFData(c *gin.Context, detail quotedomain.Detail, view presentation.View) (pdf.QuoteData, error) {
	settings, err := s.settingsSvc.Get(c.Request.Context())
	if err != nil {
		return pdf.QuoteData{}, err
	}

	customer, err := s.customerSvc.GetByID(c.Request.Context(), customerdomain.GetCustomerRequest{
		ID: detail.Quote.CustomerID.String(),
	})
	if err != nil {
		return pdf.QuoteData{}, err
	}

	return pdf.QuoteData{
		CompanyName:     settings.CompanyName,
		CompanyAddress:  settings.Address,
		CompanyPhone:    settings.Phone,
		CompanyEmail:    settings.Email,
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerAddress: customer.Address,
		Model:           presentation.Project(detail.Quote, detail.Items, view, s.renderPolicy()),
	}, nil
}

func (s *Server) renderPolicy() pricing.Policy {
	policy := s.policy.Get()
	return pricing.Policy{
		MarketRateMultiplier: policy.MarketRateMultiplier,
		SavingsFloor:         policy.SavingsFloor,
	}
}

func toItemInputs(items []quoteItemRequest) []quotedomain.ItemInput {
	inputs := make([]quotedomain.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, quotedomain.ItemInput{
			ProductID: strings.TrimSpace(item.ProductID),
			Quantity:  item.Quantity,
		})
	}
	return inputs
}
