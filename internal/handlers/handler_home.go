package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func homeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "erp-backend", "status": "ok"})
}
