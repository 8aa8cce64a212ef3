package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/liorkima5-coder/SmartStock/models"
	"github.com/liorkima5-coder/SmartStock/utils"
)

func createOrderHandler(c *gin.Context) {
	var input models.NewOrder
	if !bindJSON(c, &input) {
		return
	}

	order, err := models.CreateOrder(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func listOrdersHandler(c *gin.Context) {
	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"kind": utils.ErrorKindInvalidInput, "message": "since must be an RFC3339 timestamp"}})
			return
		}
		since = &t
	}

	orders, err := models.GetOrders(c.Request.Context(), since)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func getOrderItemsHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}

	items, err := models.GetOrderItems(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
