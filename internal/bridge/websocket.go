package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/tillbridge/tillbridge/internal/payment"
	"github.com/tillbridge/tillbridge/pkg/receipt"
)

// Inbound bridge operations from the till frontend
const (
	OpProcessCardPayment = "processCardPayment"
	OpProcessCashPayment = "processCashPayment"
	OpPrintReceipt       = "printReceipt"
	OpOpenCashDrawer     = "openCashDrawer"
	OpGetPrinterStatus   = "getPrinterStatus"
	OpGetPaymentStatus   = "getPaymentProviderStatus"
)

// Outbound event types
const (
	EventResponse      = "response"
	EventError         = "error"
	EventPaymentResult = "payment_result"
)

// WSMessage is the frame exchanged with the till frontend
type WSMessage struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// WSClient is one connected till frontend
type WSClient struct {
	conn   *websocket.Conn
	send   chan WSMessage
	server *Server
}

// clientSet tracks connected clients for broadcasts
type clientSet struct {
	mu      sync.RWMutex
	clients map[*WSClient]bool
}

func newClientSet() *clientSet {
	return &clientSet{clients: make(map[*WSClient]bool)}
}

func (cs *clientSet) add(c *WSClient) {
	cs.mu.Lock()
	cs.clients[c] = true
	cs.mu.Unlock()
}

func (cs *clientSet) remove(c *WSClient) {
	cs.mu.Lock()
	delete(cs.clients, c)
	cs.mu.Unlock()
}

// broadcastPaymentResult pushes a payment outcome to every connected
// till, so a frontend that reconnected mid-payment still hears it
func (cs *clientSet) broadcastPaymentResult(result payment.Result) {
	data := resultData(result)

	cs.mu.RLock()
	defer cs.mu.RUnlock()

	for client := range cs.clients {
		select {
		case client.send <- WSMessage{Event: EventPaymentResult, Data: data}:
		default:
			// Client send buffer full, skip
		}
	}
}

func resultData(result payment.Result) map[string]interface{} {
	raw, _ := json.Marshal(result)
	data := make(map[string]interface{})
	json.Unmarshal(raw, &data)
	return data
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		fmt.Printf("WebSocket upgrade failed: %v\n", err)
		return
	}

	client := &WSClient{
		conn:   conn,
		send:   make(chan WSMessage, 256),
		server: s,
	}

	fmt.Println("📡 Till connected")

	go client.readPump()
	go client.writePump()
}

func (c *WSClient) readPump() {
	defer func() {
		c.server.clients.remove(c)
		close(c.send)
		c.conn.Close()
		fmt.Println("📡 Till disconnected")
	}()

	c.server.clients.add(c)

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				fmt.Printf("WebSocket error: %v\n", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

func (c *WSClient) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			fmt.Printf("WebSocket write error: %v\n", err)
			return
		}
	}
}

func (c *WSClient) handleMessage(msg *WSMessage) {
	switch msg.Event {
	case OpProcessCardPayment:
		c.handleCardPayment(msg.Data)
	case OpProcessCashPayment:
		c.handleCashPayment(msg.Data)
	case OpPrintReceipt:
		c.handlePrintReceipt(msg.Data)
	case OpOpenCashDrawer:
		if err := c.server.pipeline.OpenCashDrawer(context.Background()); err != nil {
			c.sendError(err.Error())
			return
		}
		c.sendResponse(map[string]interface{}{"success": true})
	case OpGetPrinterStatus:
		c.sendResponse(map[string]interface{}{"status": c.server.printerStatus()})
	case OpGetPaymentStatus:
		c.sendResponse(map[string]interface{}{"status": c.server.paymentStatus()})
	default:
		c.sendError(fmt.Sprintf("unknown event: %s", msg.Event))
	}
}

func (c *WSClient) handleCardPayment(data map[string]interface{}) {
	amount, err := amountFrom(data)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	reference, _ := data["reference"].(string)

	// The outcome arrives later through the provider callback; push it
	// to every till when it does
	c.server.payments.ProcessCard(context.Background(), amount, reference, func(r payment.Result) {
		c.server.clients.broadcastPaymentResult(r)
	})

	c.sendResponse(map[string]interface{}{"accepted": true})
}

func (c *WSClient) handleCashPayment(data map[string]interface{}) {
	amount, err := amountFrom(data)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	result := c.server.processCash(context.Background(), amount)
	c.server.clients.broadcastPaymentResult(result)
	c.sendResponse(resultData(result))
}

func (c *WSClient) handlePrintReceipt(data map[string]interface{}) {
	raw, ok := data["receipt"]
	if !ok {
		c.sendError("receipt is required")
		return
	}

	// The till sends the receipt either as an embedded object or as a
	// JSON string
	var docBytes []byte
	switch v := raw.(type) {
	case string:
		docBytes = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			c.sendError(fmt.Sprintf("invalid receipt: %v", err))
			return
		}
		docBytes = b
	}

	doc, err := receipt.Parse(docBytes)
	if err != nil {
		c.sendError(fmt.Sprintf("invalid receipt: %v", err))
		return
	}

	if err := c.server.pipeline.PrintReceipt(context.Background(), doc); err != nil {
		c.sendError(err.Error())
		return
	}

	c.sendResponse(map[string]interface{}{"success": true})
}

func (c *WSClient) sendResponse(data map[string]interface{}) {
	c.send <- WSMessage{Event: EventResponse, Data: data}
}

func (c *WSClient) sendError(message string) {
	c.send <- WSMessage{
		Event: EventError,
		Data:  map[string]interface{}{"error": message},
	}
}

// amountFrom reads the decimal-string amount field from a bridge
// message
func amountFrom(data map[string]interface{}) (decimal.Decimal, error) {
	raw, ok := data["amount"].(string)
	if !ok || raw == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %v", err)
	}
	return amount, nil
}
