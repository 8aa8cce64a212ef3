package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liorkima5-coder/SmartStock/config"
	"github.com/liorkima5-coder/SmartStock/models/reports"
)

func dashboardHandler(c *gin.Context) {
	summary, err := reports.GetDashboardSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func abcAnalysisHandler(c *gin.Context) {
	// An analytics failure is an error response, never empty
	// success-shaped output.
	results, err := reports.GetAbcAnalysis(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func stockForecastHandler(c *gin.Context) {
	results, err := reports.GetStockForecast(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func abcExportHandler(c *gin.Context) {
	f, err := reports.BuildAbcAnalysisWorkbook(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="abc-analysis.xlsx"`)
	if err := f.Write(c.Writer); err != nil {
		config.LogError(config.GetLogger(), "reports", "abcExportHandler", "excel write", nil, err)
	}
}
