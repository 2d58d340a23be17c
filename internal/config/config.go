// Package config persists app settings to a YAML file next to the
// binary, so the saved printer and hardware options survive restarts
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings keys
const (
	keyPOSURL           = "pos_url"
	keyPrinterAddress   = "printer_address"
	keyPrinterName      = "printer_name"
	keyHasCashDrawer    = "has_cash_drawer"
	keyHasPaperCutter   = "has_paper_cutter"
	keyAutoPrintCard    = "auto_print_card"
	keyAutoPrintCash    = "auto_print_cash"
	keyShopName         = "shop_name"
	keyShopAddress      = "shop_address"
	keyShopPhone        = "shop_phone"
	keyPaymentChargeURL = "payment_charge_url"
	keyListenAddr       = "listen_addr"
	keyUpdateFeedURL    = "update_feed_url"
)

// Config wraps a viper instance bound to one settings file
type Config struct {
	v    *viper.Viper
	path string
}

// Load reads settings from the given file, creating it with defaults
// on first run
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault(keyPOSURL, "https://pos.example.com")
	v.SetDefault(keyPrinterAddress, "")
	v.SetDefault(keyPrinterName, "")
	v.SetDefault(keyHasCashDrawer, false)
	v.SetDefault(keyHasPaperCutter, true)
	v.SetDefault(keyAutoPrintCard, true)
	v.SetDefault(keyAutoPrintCash, true)
	v.SetDefault(keyShopName, "")
	v.SetDefault(keyShopAddress, "")
	v.SetDefault(keyShopPhone, "")
	v.SetDefault(keyPaymentChargeURL, "")
	v.SetDefault(keyListenAddr, ":8765")
	v.SetDefault(keyUpdateFeedURL, "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := v.WriteConfigAs(path); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	return &Config{v: v, path: path}, nil
}

// Path returns the settings file location
func (c *Config) Path() string {
	return c.path
}

// POSURL returns the till frontend URL
func (c *Config) POSURL() string {
	return c.v.GetString(keyPOSURL)
}

// SavedPrinter returns the last connected printer, empty strings if
// none has been saved
func (c *Config) SavedPrinter() (address, name string) {
	return c.v.GetString(keyPrinterAddress), c.v.GetString(keyPrinterName)
}

// SavePrinter remembers the printer for automatic reconnection
func (c *Config) SavePrinter(address, name string) error {
	c.v.Set(keyPrinterAddress, address)
	c.v.Set(keyPrinterName, name)
	return c.write()
}

// ClearPrinter forgets the saved printer
func (c *Config) ClearPrinter() error {
	c.v.Set(keyPrinterAddress, "")
	c.v.Set(keyPrinterName, "")
	return c.write()
}

// HasCashDrawer reports whether a drawer is attached to the printer
func (c *Config) HasCashDrawer() bool {
	return c.v.GetBool(keyHasCashDrawer)
}

// HasPaperCutter reports whether the printer can cut paper
func (c *Config) HasPaperCutter() bool {
	return c.v.GetBool(keyHasPaperCutter)
}

// AutoPrintCard reports whether card payments print a receipt
// automatically
func (c *Config) AutoPrintCard() bool {
	return c.v.GetBool(keyAutoPrintCard)
}

// AutoPrintCash reports whether cash payments print a receipt
// automatically
func (c *Config) AutoPrintCash() bool {
	return c.v.GetBool(keyAutoPrintCash)
}

// ShopName returns the configured shop display name
func (c *Config) ShopName() string {
	return c.v.GetString(keyShopName)
}

// ShopAddress returns the configured shop address line
func (c *Config) ShopAddress() string {
	return c.v.GetString(keyShopAddress)
}

// ShopPhone returns the configured shop phone line
func (c *Config) ShopPhone() string {
	return c.v.GetString(keyShopPhone)
}

// PaymentChargeURL returns the card terminal service endpoint, empty
// when card payments are not configured
func (c *Config) PaymentChargeURL() string {
	return c.v.GetString(keyPaymentChargeURL)
}

// ListenAddr returns the bridge server bind address
func (c *Config) ListenAddr() string {
	return c.v.GetString(keyListenAddr)
}

// UpdateFeedURL returns the release feed endpoint, empty when update
// checks are disabled
func (c *Config) UpdateFeedURL() string {
	return c.v.GetString(keyUpdateFeedURL)
}

func (c *Config) write() error {
	if err := c.v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}
