// Command app is the local front end of the invoice tool: it reads an invoice
// value from a JSON file and drives the compute/save/render contracts.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"invoiceapp/internal/config"
	"invoiceapp/internal/database"
	"invoiceapp/internal/model"
	"invoiceapp/internal/render"
	"invoiceapp/internal/repository"
	"invoiceapp/internal/service"
	"invoiceapp/pkg/logger"
)

type appCtx struct {
	cfg      config.Config
	invoices service.InvoiceService
	renderer *render.PDF
}

func main() {
	app := &cli.App{
		Name:  "invoiceapp",
		Usage: "create, store and print customer invoices",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Value: "configs/.env",
				Usage: "path to the env file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "next",
				Usage:  "print the next free invoice number for today",
				Action: nextAction,
			},
			{
				Name:      "totals",
				Usage:     "compute and print the totals of an invoice file",
				ArgsUsage: "<invoice.json>",
				Action:    totalsAction,
			},
			{
				Name:      "save",
				Usage:     "validate and store an invoice file",
				ArgsUsage: "<invoice.json>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "overwrite",
						Usage: "replace an existing invoice without asking",
					},
					&cli.BoolFlag{
						Name:  "export",
						Usage: "also render the PDF after saving",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "PDF output path when --export is set",
					},
				},
				Action: saveAction,
			},
			{
				Name:      "render",
				Usage:     "render an invoice file to PDF without saving it",
				ArgsUsage: "<invoice.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output",
						Usage: "PDF output path (default: <output dir>/<invoice no>.pdf)",
					},
				},
				Action: renderAction,
			},
			{
				Name:   "open",
				Usage:  "print the absolute path of the PDF output folder",
				Action: openAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) (*appCtx, error) {
	logger.New(c.Bool("verbose"))

	cfg, err := config.New(c.String("env"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open invoice store: %w", err)
	}

	invoiceRepo := repository.NewInvoiceRepository(db)
	txManager := repository.NewTransactionManager(db)

	return &appCtx{
		cfg:      cfg,
		invoices: service.NewInvoiceService(invoiceRepo, txManager),
		renderer: render.NewPDF(cfg.Company, cfg.OutputDir),
	}, nil
}

func loadInvoice(c *cli.Context) (*model.Invoice, error) {
	if c.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one invoice file argument")
	}
	raw, err := os.ReadFile(c.Args().First())
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice file: %w", err)
	}
	var invoice model.Invoice
	if err := json.Unmarshal(raw, &invoice); err != nil {
		return nil, fmt.Errorf("failed to parse invoice file: %w", err)
	}
	return &invoice, nil
}

func nextAction(c *cli.Context) error {
	app, err := setup(c)
	if err != nil {
		return err
	}
	number, err := app.invoices.NextInvoiceNumber(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(number)
	return nil
}

func totalsAction(c *cli.Context) error {
	app, err := setup(c)
	if err != nil {
		return err
	}
	invoice, err := loadInvoice(c)
	if err != nil {
		return err
	}

	totals := app.invoices.ComputeTotals(invoice)
	fmt.Printf("Subtotal:  %s\n", totals.Subtotal.StringFixed(2))
	fmt.Printf("Tax @ %s%%: %s\n", invoice.TaxRatePercent.StringFixed(2), totals.TaxAmount.StringFixed(2))
	fmt.Printf("Total:     %s\n", totals.Total.StringFixed(2))
	return nil
}

func saveAction(c *cli.Context) error {
	app, err := setup(c)
	if err != nil {
		return err
	}
	invoice, err := loadInvoice(c)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if c.Bool("overwrite") {
		err = app.invoices.SaveOverwrite(ctx, invoice)
	} else {
		err = app.invoices.Save(ctx, invoice)

		var dup *service.DuplicateKeyError
		if errors.As(err, &dup) {
			if !confirmOverwrite(dup.Existing) {
				return fmt.Errorf("invoice %s left unchanged", invoice.InvoiceNo)
			}
			err = app.invoices.SaveOverwrite(ctx, invoice)
		}
	}
	if err != nil {
		return err
	}
	slog.Info("invoice saved", "invoice_no", invoice.InvoiceNo, "total", invoice.Total.StringFixed(2))

	if c.Bool("export") {
		path, err := app.renderer.Render(invoice, c.String("output"))
		if err != nil {
			return err
		}
		fmt.Println(path)
	}
	return nil
}

func renderAction(c *cli.Context) error {
	app, err := setup(c)
	if err != nil {
		return err
	}
	invoice, err := loadInvoice(c)
	if err != nil {
		return err
	}

	if err := app.invoices.Validate(invoice); err != nil {
		return err
	}
	app.invoices.ComputeTotals(invoice)

	path, err := app.renderer.Render(invoice, c.String("output"))
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func openAction(c *cli.Context) error {
	app, err := setup(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(app.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}
	abs, err := filepath.Abs(app.cfg.OutputDir)
	if err != nil {
		return err
	}
	fmt.Println(abs)
	return nil
}

// confirmOverwrite asks on the terminal before an existing invoice is
// replaced. Saving an already-used number is never silent.
func confirmOverwrite(existing *model.Invoice) bool {
	fmt.Fprintf(os.Stderr, "Invoice %s already exists (customer %q, total %s). Overwrite? [y/N]: ",
		existing.InvoiceNo, existing.CustomerName, existing.Total.StringFixed(2))

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
