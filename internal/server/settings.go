package server

import (
	"net/http"

	settingsdomain "github.com/cabinetworks/quoteflow/internal/settings/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetSettings(c *gin.Context) {
	resp, err := s.settingsSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateSettingsRequest struct {
	CompanyName    *string  `json:"company_name"`
	Address        *string  `json:"address"`
	Phone          *string  `json:"phone"`
	Email          *string  `json:"email"`
	DefaultTaxRate *float64 `json:"default_tax_rate"`
}

func (s *Server) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.settingsSvc.Update(c.Request.Context(), settingsdomain.UpdateSettingsRequest{
		CompanyName:    req.CompanyName,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		DefaultTaxRate: req.DefaultTaxRate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
