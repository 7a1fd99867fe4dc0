package server

import (
	"net/http"
	"strings"

	catalogdomain "github.com/cabinetworks/quoteflow/internal/catalog/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListCollections(c *gin.Context) {
	resp, err := s.catalogSvc.ListCollections(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListStyles(c *gin.Context) {
	resp, err := s.catalogSvc.ListStyles(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		CollectionID string `form:"collection_id"`
		StyleID      string `form:"style_id"`
		Name         string `form:"name"`
		Active       string `form:"active"`
		SortBy       string `form:"sort_by"`
		OrderBy      string `form:"order_by"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	active, err := parseOptionalBool(query.Active)
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}

	resp, err := s.catalogSvc.ListProducts(c.Request.Context(), catalogdomain.ListProductRequest{
		CollectionID: query.CollectionID,
		StyleID:      query.StyleID,
		Name:         query.Name,
		Active:       active,
		SortBy:       query.SortBy,
		OrderBy:      query.OrderBy,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createProductRequest struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	CollectionID string   `json:"collection_id"`
	StyleID      string   `json:"style_id"`
	UnitPrice    float64  `json:"unit_price"`
	Msrp         *float64 `json:"msrp"`
	Active       *bool    `json:"active"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.CreateProduct(c.Request.Context(), catalogdomain.CreateProductRequest{
		Code:         strings.TrimSpace(req.Code),
		Name:         strings.TrimSpace(req.Name),
		CollectionID: strings.TrimSpace(req.CollectionID),
		StyleID:      strings.TrimSpace(req.StyleID),
		UnitPrice:    req.UnitPrice,
		Msrp:         req.Msrp,
		Active:       req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProductByID(c *gin.Context) {
	resp, err := s.catalogSvc.GetProduct(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateProductRequest struct {
	Name      *string  `json:"name"`
	UnitPrice *float64 `json:"unit_price"`
	Msrp      *float64 `json:"msrp"`
	ClearMsrp bool     `json:"clear_msrp"`
	Active    *bool    `json:"active"`
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.UpdateProduct(c.Request.Context(), catalogdomain.UpdateProductRequest{
		ID:        strings.TrimSpace(c.Param("id")),
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		Msrp:      req.Msrp,
		ClearMsrp: req.ClearMsrp,
		Active:    req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
