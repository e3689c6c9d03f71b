package config

import (
	"errors"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Company is the letterhead block printed on every rendered invoice. It is
// passed to the renderer at construction so tests can swap it freely.
type Company struct {
	Name    string `env:"COMPANY_NAME" envDefault:"RAJ POUCH PACKAGING"`
	Tagline string `env:"COMPANY_TAGLINE" envDefault:"Manufacturer and Exporter of All Types of Packaging Machines"`
	Address string `env:"COMPANY_ADDRESS" envDefault:"PLOT NO 30, SAI COMPLEX, B-BLOCK, WAZIRPUR ROAD,\nOLD FARIDABAD - 121002, HARYANA"`
	Phones  string `env:"COMPANY_PHONES" envDefault:"Mobile: 7011568170, 8860244103"`
	Email   string `env:"COMPANY_EMAIL" envDefault:"Email: babluthakur2012@gmail.com"`
}

type Config struct {
	// DatabaseDSN is a SQLite file path by default; a postgres:// URL switches
	// the store backend.
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"invoices.db"`
	OutputDir   string `env:"OUTPUT_DIR" envDefault:"invoices"`
	Company     Company
}

// New loads configuration from envPath (ignored when absent) and the process
// environment.
func New(envPath string) (Config, error) {
	var c Config

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}

	// Struct tags and env values carry newlines as the two characters \n.
	c.Company.Address = strings.ReplaceAll(c.Company.Address, `\n`, "\n")

	return c, nil
}
