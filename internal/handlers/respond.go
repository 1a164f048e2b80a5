package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finsignal/riskgraph-backend/internal/platform/apierr"
)

type errorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func respondError(c *gin.Context, err error) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, errorBody{Detail: apiErr.Error(), Code: apiErr.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, errorBody{Detail: err.Error()})
}
