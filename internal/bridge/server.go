// Package bridge exposes the printer and payment capabilities to the
// till frontend over HTTP and WebSocket
package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/tillbridge/tillbridge/internal/config"
	"github.com/tillbridge/tillbridge/internal/payment"
	"github.com/tillbridge/tillbridge/internal/printer"
	"github.com/tillbridge/tillbridge/pkg/receipt"
)

// Server is the bridge API server
type Server struct {
	router   *gin.Engine
	conn     *printer.Manager
	pipeline *printer.Pipeline
	payments *payment.Manager
	cfg      *config.Config
	upgrader websocket.Upgrader
	clients  *clientSet
}

// NewServer creates the bridge server over the shared printer and
// payment components
func NewServer(conn *printer.Manager, pipeline *printer.Pipeline, payments *payment.Manager, cfg *config.Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	server := &Server{
		router:   router,
		conn:     conn,
		pipeline: pipeline,
		payments: payments,
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // the till frontend may be served from anywhere
			},
		},
		clients: newClientSet(),
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	s.router.GET("/printer/status", s.handlePrinterStatus)
	s.router.GET("/printer/devices", s.handlePrinterDevices)
	s.router.POST("/printer/connect", s.handlePrinterConnect)
	s.router.POST("/printer/disconnect", s.handlePrinterDisconnect)

	s.router.POST("/print", s.handlePrint)
	s.router.POST("/print/test", s.handlePrintTest)
	s.router.POST("/drawer", s.handleDrawer)

	s.router.GET("/payment/status", s.handlePaymentStatus)
	s.router.POST("/payment/card", s.handleCardPayment)
	s.router.POST("/payment/cash", s.handleCashPayment)
	s.router.POST("/payment/callback", s.handlePaymentCallback)

	s.router.GET("/ws", s.handleWebSocket)
}

// printerStatus is the two-value status string the till expects
func (s *Server) printerStatus() string {
	if s.conn.IsConnected() {
		return "connected"
	}
	return "disconnected"
}

func (s *Server) paymentStatus() string {
	if s.payments.Configured() {
		return "configured"
	}
	return "not_configured"
}

func (s *Server) handlePrinterStatus(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  s.printerStatus(),
		"address": s.conn.Address(),
	})
}

func (s *Server) handlePrinterDevices(c *gin.Context) {
	devices, err := s.conn.PairedDevices()
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"devices": devices})
}

func (s *Server) handlePrinterConnect(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
		Name    string `json:"name"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "address is required"})
		return
	}

	if err := s.conn.Connect(req.Address); err != nil {
		c.JSON(502, gin.H{"error": err.Error()})
		return
	}

	// Remember the printer so startup can reconnect automatically
	if err := s.cfg.SavePrinter(req.Address, req.Name); err != nil {
		fmt.Printf("Warning: failed to save printer: %v\n", err)
	}

	c.JSON(200, gin.H{"success": true, "status": s.printerStatus()})
}

func (s *Server) handlePrinterDisconnect(c *gin.Context) {
	s.conn.Disconnect()
	c.JSON(200, gin.H{"success": true, "status": s.printerStatus()})
}

func (s *Server) handlePrint(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	doc, err := receipt.Parse(data)
	if err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("invalid receipt: %v", err)})
		return
	}

	if err := s.pipeline.PrintReceipt(c.Request.Context(), doc); err != nil {
		c.JSON(printErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"success": true})
}

func (s *Server) handlePrintTest(c *gin.Context) {
	if err := s.pipeline.PrintTestPage(c.Request.Context()); err != nil {
		c.JSON(printErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"success": true})
}

func (s *Server) handleDrawer(c *gin.Context) {
	if err := s.pipeline.OpenCashDrawer(c.Request.Context()); err != nil {
		c.JSON(printErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"success": true})
}

func (s *Server) handlePaymentStatus(c *gin.Context) {
	c.JSON(200, gin.H{"status": s.paymentStatus()})
}

func (s *Server) handleCardPayment(c *gin.Context) {
	var req struct {
		Amount    string `json:"amount" binding:"required"`
		Reference string `json:"reference"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "amount is required"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("invalid amount: %v", err)})
		return
	}

	done := make(chan payment.Result, 1)
	s.payments.ProcessCard(c.Request.Context(), amount, req.Reference, func(r payment.Result) {
		done <- r
	})

	select {
	case result := <-done:
		s.clients.broadcastPaymentResult(result)
		c.JSON(200, result)
	case <-c.Request.Context().Done():
		c.JSON(504, gin.H{"error": "payment timed out"})
	}
}

func (s *Server) handleCashPayment(c *gin.Context) {
	var req struct {
		Amount    string `json:"amount" binding:"required"`
		Reference string `json:"reference"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "amount is required"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("invalid amount: %v", err)})
		return
	}

	result := s.processCash(c.Request.Context(), amount)
	s.clients.broadcastPaymentResult(result)
	c.JSON(200, result)
}

// processCash records the payment and pops the drawer when one is
// fitted. A drawer failure does not fail the payment; cash has already
// changed hands.
func (s *Server) processCash(ctx context.Context, amount decimal.Decimal) payment.Result {
	result := s.payments.ProcessCash(amount)

	if s.cfg.HasCashDrawer() {
		if err := s.pipeline.OpenCashDrawer(ctx); err != nil {
			fmt.Printf("Warning: failed to open cash drawer: %v\n", err)
		}
	}
	return result
}

func (s *Server) handlePaymentCallback(c *gin.Context) {
	var req struct {
		ID     string         `json:"id" binding:"required"`
		Result payment.Result `json:"result"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "id is required"})
		return
	}

	if !s.payments.Resolve(req.ID, req.Result) {
		c.JSON(404, gin.H{"error": "unknown payment id"})
		return
	}

	c.JSON(200, gin.H{"success": true})
}

// printErrorStatus maps pipeline failures to HTTP statuses: a missing
// connection is the caller's problem, anything else is the printer's
func printErrorStatus(err error) int {
	if errors.Is(err, printer.ErrNotConnected) {
		return 409
	}
	return 502
}

// Run starts the bridge server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router for embedding in other servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
