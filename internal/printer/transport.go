// Package printer manages the connection to a thermal receipt printer
// and serializes all writes to it.
package printer

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/tarm/serial"
)

// SPPUUID is the Bluetooth Serial Port Profile service identifier.
// Every supported receipt printer exposes this profile.
const SPPUUID = "00001101-0000-1000-8000-00805F9B34FB"

// Device is a printer endpoint the transport can dial
type Device struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Transport abstracts the physical link to a printer. Implementations
// enumerate paired devices and open a raw byte channel to one of them.
type Transport interface {
	Paired() ([]Device, error)
	Dial(address string) (io.ReadWriteCloser, error)
}

// RFCOMMTransport talks to Bluetooth printers through kernel-bound
// RFCOMM device nodes. Pairing and binding happen outside the app
// (bluetoothctl + rfcomm bind); this transport only opens the result.
type RFCOMMTransport struct {
	Baud int
}

// NewRFCOMMTransport creates a transport with the conventional baud
// rate for thermal printers
func NewRFCOMMTransport() *RFCOMMTransport {
	return &RFCOMMTransport{Baud: 9600}
}

// Paired lists bound RFCOMM device nodes
func (t *RFCOMMTransport) Paired() ([]Device, error) {
	nodes, err := filepath.Glob("/dev/rfcomm*")
	if err != nil {
		return nil, fmt.Errorf("failed to scan rfcomm devices: %w", err)
	}
	sort.Strings(nodes)

	devices := make([]Device, 0, len(nodes))
	for _, node := range nodes {
		devices = append(devices, Device{
			Address: node,
			Name:    filepath.Base(node),
		})
	}
	return devices, nil
}

// Dial opens the device node as a serial channel
func (t *RFCOMMTransport) Dial(address string) (io.ReadWriteCloser, error) {
	config := &serial.Config{
		Name: address,
		Baud: t.Baud,
	}

	port, err := serial.OpenPort(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", address, err)
	}
	return port, nil
}
