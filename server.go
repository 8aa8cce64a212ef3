package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/liorkima5-coder/SmartStock/config"
	"github.com/liorkima5-coder/SmartStock/middlewares"
	"github.com/liorkima5-coder/SmartStock/models"
	"github.com/liorkima5-coder/SmartStock/utils"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

var tracer = otel.Tracer("smartstock-backend")

func newRouter() *gin.Engine {
	r := gin.Default()

	// The frontend is served from a different origin (static hosting), so
	// CORS stays wide open for the API.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Correlation-Id")
	r.Use(cors.New(corsConfig))
	r.Use(middlewares.CorrelationMiddleware())

	r.GET("/", homeHandler)
	r.GET("/healthz", healthHandler)

	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)

	api := r.Group("/", middlewares.AuthMiddleware())
	{
		api.GET("/profile", getProfileHandler)
		api.PUT("/profile", updateProfileHandler)

		api.GET("/categories", listCategoriesHandler)
		api.POST("/categories", createCategoryHandler)
		api.DELETE("/categories/:id", deleteCategoryHandler)

		api.GET("/suppliers", listSuppliersHandler)
		api.POST("/suppliers", createSupplierHandler)
		api.DELETE("/suppliers/:id", deleteSupplierHandler)

		api.GET("/customers", listCustomersHandler)
		api.POST("/customers", createCustomerHandler)
		api.DELETE("/customers/:id", deleteCustomerHandler)

		api.GET("/products", listProductsHandler)
		api.POST("/products", createProductHandler)
		api.PUT("/products/:id", updateProductHandler)
		api.DELETE("/products/:id", deleteProductHandler)

		api.GET("/orders", listOrdersHandler)
		api.POST("/orders", createOrderHandler)
		api.GET("/orders/:id/items", getOrderItemsHandler)

		api.GET("/stats", dashboardHandler)
		api.GET("/stats/abc", abcAnalysisHandler)
		api.GET("/stats/abc/export", abcExportHandler)
		api.GET("/stats/forecast", stockForecastHandler)
	}

	return r
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	// Reject unknown fields on every JSON body: caller payloads are
	// validated command objects, never merged into table writes as-is.
	gin.EnableJsonDecoderDisallowUnknownFields()

	r := newRouter()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Start listening first, then connect; managed runtimes require the
	// container to bind $PORT quickly.
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()
	models.MigrateTable()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}

func homeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "SmartStock Backend is Running!"})
}

func healthHandler(c *gin.Context) {
	if config.GetDB() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError renders the taxonomy: a machine-readable kind plus a
// human-readable message. Unclassified errors are internal: logged with
// context, reported without detail.
func respondError(c *gin.Context, err error) {
	kind := utils.KindOf(err)

	status := http.StatusInternalServerError
	message := err.Error()
	switch kind {
	case utils.ErrorKindInvalidInput:
		status = http.StatusBadRequest
	case utils.ErrorKindUnauthorized:
		status = http.StatusUnauthorized
	case utils.ErrorKindNotFound:
		status = http.StatusNotFound
	case utils.ErrorKindInsufficientStock, utils.ErrorKindConflict:
		status = http.StatusConflict
	default:
		config.LogError(config.GetLogger(), "server", c.HandlerName(), c.FullPath(), nil, err)
		message = "internal server error"
	}

	c.JSON(status, gin.H{"error": gin.H{"kind": kind, "message": message}})
}

// bindJSON decodes and validates a request body against its command
// object, translating binding failures into InvalidInput.
func bindJSON(c *gin.Context, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"kind":    utils.ErrorKindInvalidInput,
				"message": "invalid request body",
				"fields":  utils.ProcessValidationErrors(err),
			},
		})
		return false
	}
	return true
}
