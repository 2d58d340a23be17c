package command

import (
	"context"
	"fmt"

	"github.com/tillbridge/tillbridge/pkg/receipt"
)

func (e *Executor) handleDevices(args []string) *Result {
	devices, err := e.conn.PairedDevices()
	if err != nil {
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("failed to list devices: %v", err),
		}
	}

	deviceData := make([]map[string]interface{}, len(devices))
	for i, d := range devices {
		deviceData[i] = map[string]interface{}{
			"address": d.Address,
			"name":    d.Name,
		}
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("%d device(s) paired", len(devices)),
		Data:    map[string]interface{}{"devices": deviceData},
	}
}

func (e *Executor) handleConnect(args []string) *Result {
	if len(args) < 1 {
		return &Result{
			Success: false,
			Error:   "usage: connect <address> [name]",
		}
	}

	address := args[0]
	name := address
	if len(args) > 1 {
		name = args[1]
	}

	if err := e.conn.Connect(address); err != nil {
		return &Result{
			Success: false,
			Error:   err.Error(),
		}
	}

	if err := e.cfg.SavePrinter(address, name); err != nil {
		return &Result{
			Success: true,
			Message: fmt.Sprintf("connected to %s (settings not saved: %v)", address, err),
		}
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("connected to %s", address),
	}
}

func (e *Executor) handleDisconnect(args []string) *Result {
	e.conn.Disconnect()
	return &Result{
		Success: true,
		Message: "disconnected",
	}
}

func (e *Executor) handleStatus(args []string) *Result {
	savedAddr, savedName := e.cfg.SavedPrinter()

	return &Result{
		Success: true,
		Data: map[string]interface{}{
			"state":         e.conn.State().String(),
			"address":       e.conn.Address(),
			"saved_printer": savedAddr,
			"saved_name":    savedName,
			"cash_drawer":   e.cfg.HasCashDrawer(),
			"paper_cutter":  e.cfg.HasPaperCutter(),
			"auto_print": map[string]bool{
				"card": e.cfg.AutoPrintCard(),
				"cash": e.cfg.AutoPrintCash(),
			},
		},
	}
}

func (e *Executor) handleTest(args []string) *Result {
	if err := e.pipeline.PrintTestPage(context.Background()); err != nil {
		return &Result{
			Success: false,
			Error:   err.Error(),
		}
	}
	return &Result{
		Success: true,
		Message: "test page sent",
	}
}

func (e *Executor) handleDrawer(args []string) *Result {
	if err := e.pipeline.OpenCashDrawer(context.Background()); err != nil {
		return &Result{
			Success: false,
			Error:   err.Error(),
		}
	}
	return &Result{
		Success: true,
		Message: "drawer pulse sent",
	}
}

func (e *Executor) handlePrint(args []string) *Result {
	if len(args) < 1 {
		return &Result{
			Success: false,
			Error:   "usage: print <receipt.json>",
		}
	}

	doc, err := receipt.ParseFile(args[0])
	if err != nil {
		return &Result{
			Success: false,
			Error:   err.Error(),
		}
	}

	if err := e.pipeline.PrintReceipt(context.Background(), doc); err != nil {
		return &Result{
			Success: false,
			Error:   err.Error(),
		}
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("printed receipt %s", doc.ReceiptNumber),
	}
}

func (e *Executor) handleForget(args []string) *Result {
	if err := e.cfg.ClearPrinter(); err != nil {
		return &Result{
			Success: false,
			Error:   err.Error(),
		}
	}
	return &Result{
		Success: true,
		Message: "saved printer cleared",
	}
}

func (e *Executor) handleHelp(args []string) *Result {
	help := `Available commands:
  devices                 List paired printer devices
  connect <address> [name] Connect to a printer and remember it
  disconnect              Disconnect from the printer
  status                  Show connection and hardware status
  test                    Print a test page
  drawer                  Open the cash drawer
  print <file>            Print a receipt JSON file
  forget                  Clear the saved printer
  help                    Show this help`

	return &Result{
		Success: true,
		Message: help,
	}
}
