// Package tui is the operator console for the bridge
package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/tillbridge/tillbridge/internal/command"
	"github.com/tillbridge/tillbridge/internal/config"
	"github.com/tillbridge/tillbridge/internal/printer"
)

// App is the terminal console: paired devices, connection status, logs
// and an operator command line
type App struct {
	App      *tview.Application
	conn     *printer.Manager
	executor *command.Executor
	cfg      *config.Config

	flex *tview.Flex

	devicesList  *tview.List
	statusBox    *tview.TextView
	logsArea     *tview.TextView
	commandInput *tview.InputField

	logs      []string
	maxLogs   int
	startTime time.Time
}

// NewApp creates the console
func NewApp(conn *printer.Manager, executor *command.Executor, cfg *config.Config) *App {
	a := &App{
		App:       tview.NewApplication(),
		conn:      conn,
		executor:  executor,
		cfg:       cfg,
		logs:      make([]string, 0),
		maxLogs:   100,
		startTime: time.Now(),
	}

	a.setupUI()
	return a
}

func (a *App) setupUI() {
	a.devicesList = tview.NewList()
	a.devicesList.SetBorder(true)
	a.devicesList.SetTitle("Paired Printers")

	a.statusBox = tview.NewTextView()
	a.statusBox.SetBorder(true)
	a.statusBox.SetTitle("Bridge Status")
	a.statusBox.SetDynamicColors(true)

	a.logsArea = tview.NewTextView()
	a.logsArea.SetBorder(true)
	a.logsArea.SetTitle("Logs")
	a.logsArea.SetDynamicColors(true)
	a.logsArea.SetScrollable(true)
	a.logsArea.SetChangedFunc(func() {
		a.App.Draw()
	})

	a.commandInput = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0).
		SetPlaceholder("Type a command (e.g., 'help')").
		SetDoneFunc(func(key tcell.Key) {
			if key == tcell.KeyEnter {
				a.executeCommand(a.commandInput.GetText())
				a.commandInput.SetText("")
			}
		})

	topRow := tview.NewFlex().
		AddItem(a.devicesList, 0, 1, false).
		AddItem(a.statusBox, 0, 1, false)

	bottom := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.logsArea, 0, 3, false).
		AddItem(a.commandInput, 1, 0, true)

	a.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, false).
		AddItem(bottom, 0, 2, false)

	a.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if a.commandInput.HasFocus() {
			if event.Key() == tcell.KeyEsc {
				a.App.SetFocus(a.devicesList)
				return nil
			}
			return event
		}

		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEsc:
			a.App.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case ':':
				a.App.SetFocus(a.commandInput)
				return nil
			case 'q':
				a.App.Stop()
				return nil
			}
		}
		return event
	})

	a.App.SetRoot(a.flex, true)
}

// Run starts the console
func (a *App) Run() error {
	a.refreshAll()

	go a.refreshTicker()

	a.AddLog("🧾 TillBridge starting...", "info")

	return a.App.Run()
}

// Stop shuts the console down
func (a *App) Stop() {
	a.App.Stop()
}

func (a *App) refreshTicker() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		a.App.QueueUpdateDraw(func() {
			a.refreshAll()
		})
	}
}

func (a *App) refreshAll() {
	a.refreshDevices()
	a.refreshStatus()
}

func (a *App) refreshDevices() {
	a.devicesList.Clear()

	devices, err := a.conn.PairedDevices()
	if err != nil {
		a.devicesList.AddItem("Error loading devices", err.Error(), 0, nil)
		return
	}

	if len(devices) == 0 {
		a.devicesList.AddItem("No printers paired", "pair via bluetoothctl, then rfcomm bind", 0, nil)
		return
	}

	savedAddr, _ := a.cfg.SavedPrinter()

	for _, d := range devices {
		icon := "⚪"
		if a.conn.IsConnected() && a.conn.Address() == d.Address {
			icon = "🟢"
		} else if d.Address == savedAddr {
			icon = "💾"
		}

		a.devicesList.AddItem(fmt.Sprintf("%s %s", icon, d.Name), d.Address, 0, nil)
	}
}

func (a *App) refreshStatus() {
	uptime := time.Since(a.startTime)
	hours := int(uptime.Hours())
	minutes := int(uptime.Minutes()) % 60

	printerLine := "[red]⛔ Disconnected[white]"
	if a.conn.IsConnected() {
		printerLine = fmt.Sprintf("[green]🟢 Connected[white] %s", a.conn.Address())
	}

	drawer := "no"
	if a.cfg.HasCashDrawer() {
		drawer = "yes"
	}
	cutter := "no"
	if a.cfg.HasPaperCutter() {
		cutter = "yes"
	}

	status := fmt.Sprintf(`Printer: %s

Uptime: %dh %dm
API: %s
Drawer: %s  Cutter: %s`,
		printerLine, hours, minutes, a.cfg.ListenAddr(), drawer, cutter)

	a.statusBox.SetText(status)
}

func (a *App) executeCommand(cmd string) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return
	}

	a.AddLog(fmt.Sprintf("> %s", cmd), "command")

	switch cmd {
	case "clear":
		a.logs = make([]string, 0)
		a.logsArea.Clear()
		return
	case "quit", "q", "exit":
		a.App.Stop()
		return
	case "refresh":
		a.refreshAll()
		return
	}

	result := a.executor.Execute(cmd)
	if !result.Success {
		a.AddLog(result.Error, "error")
		a.refreshAll()
		return
	}

	if result.Message != "" {
		a.AddLog(result.Message, "info")
	}
	if result.Data != nil {
		pretty, err := json.MarshalIndent(result.Data, "", "  ")
		if err == nil {
			a.AddLog(string(pretty), "info")
		}
	}
	a.refreshAll()
}

// AddLog adds a log entry
func (a *App) AddLog(message string, level string) {
	var color string
	var icon string

	switch level {
	case "error":
		color = "[red]"
		icon = "❌"
	case "warning":
		color = "[yellow]"
		icon = "⚠️"
	case "command":
		color = "[cyan]"
		icon = ">"
	default:
		color = "[white]"
		icon = "ℹ️"
	}

	timeStr := time.Now().Format("15:04:05")
	logEntry := fmt.Sprintf("%s[%s] %s %s[white]\n", color, timeStr, icon, message)

	a.logs = append(a.logs, logEntry)
	if len(a.logs) > a.maxLogs {
		a.logs = a.logs[len(a.logs)-a.maxLogs:]
	}

	a.logsArea.Clear()
	for _, log := range a.logs {
		fmt.Fprint(a.logsArea, log)
	}

	a.logsArea.ScrollToEnd()
}

// LogWriter creates an io.Writer that writes to the logs panel
func (a *App) LogWriter() io.Writer {
	return &logWriter{app: a}
}

type logWriter struct {
	app *App
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	message := strings.TrimSpace(string(p))
	if message != "" {
		w.app.App.QueueUpdateDraw(func() {
			w.app.AddLog(message, "info")
		})
	}
	return len(p), nil
}
