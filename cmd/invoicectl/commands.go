package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"invoicer/internal/config"
	"invoicer/internal/csvexport"
	"invoicer/internal/gst"
	"invoicer/internal/invoice"
	"invoicer/internal/logger"
	"invoicer/internal/render/pdf"
	"invoicer/internal/service"
	"invoicer/internal/shopify"
	"invoicer/internal/storage/assets"
	"invoicer/internal/templateconfig"
	"invoicer/internal/validator"
)

func inFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "in",
		Aliases: []string{"i"},
		Value:   "-",
		Usage:   "order webhook JSON file, - for stdin",
	}
}

func sellerFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "seller",
		EnvVars: []string{"INVOICER_COMPANY_STATE", "COMPANY_STATE"},
		Value:   config.DefaultSellerState,
		Usage:   "seller's state or union territory",
	}
}

func shopFlag() cli.Flag {
	return &cli.StringFlag{Name: "shop", Usage: "shop domain used when the payload carries none"}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "invoicectl",
		Usage: "transform and render GST invoices from Shopify order payloads",
		Commands: []*cli.Command{
			{
				Name:  "transform",
				Usage: "print the invoice document for an order",
				Flags: []cli.Flag{
					inFlag(), sellerFlag(), shopFlag(),
					&cli.StringFlag{Name: "format", Value: "json", Usage: "json or csv"},
					&cli.BoolFlag{Name: "audit", Usage: "report audit findings on stderr"},
				},
				Action: transformCmd,
			},
			{
				Name:  "render",
				Usage: "render an order's invoice to a PDF file",
				Flags: []cli.Flag{
					inFlag(), sellerFlag(), shopFlag(),
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "invoice.pdf", Usage: "output PDF path"},
					&cli.StringFlag{Name: "assets", Value: "assets", Usage: "directory holding logo and signature images"},
				},
				Action: renderCmd,
			},
			{
				Name:      "state",
				Usage:     "resolve a state name to its GST code and tax regime",
				ArgsUsage: "<buyer state>",
				Flags:     []cli.Flag{sellerFlag()},
				Action:    stateCmd,
			},
			{
				Name:  "token",
				Usage: "issue an admin API token scoped to one shop",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "shop", Required: true, Usage: "shop domain the token may manage"},
					&cli.DurationFlag{Name: "ttl", Usage: "token lifetime, defaults to INVOICER_JWT_TOKEN_EXPIRY"},
				},
				Action: tokenCmd,
			},
		},
	}
}

func readInput(c *cli.Context) ([]byte, error) {
	path := c.String("in")
	if path == "-" {
		return io.ReadAll(c.App.Reader)
	}
	return os.ReadFile(path)
}

func loadDocument(c *cli.Context) (*shopify.Webhook, *invoice.Document, error) {
	body, err := readInput(c)
	if err != nil {
		return nil, nil, fmt.Errorf("reading order: %w", err)
	}
	wh, err := shopify.ParseWebhook(body, http.Header{}, c.String("shop"))
	if err != nil {
		return nil, nil, err
	}
	doc, err := invoice.Transform(wh.Order.Normalize(), c.String("seller"))
	if err != nil {
		return nil, nil, err
	}
	return wh, doc, nil
}

func transformCmd(c *cli.Context) error {
	_, doc, err := loadDocument(c)
	if err != nil {
		return err
	}

	if c.Bool("audit") {
		engine := validator.NewEngine(validator.DefaultRegistry(validator.NewHSNLookup(nil)), nil)
		report := engine.Audit(c.Context, doc)
		for _, f := range report.Failed() {
			fmt.Fprintf(c.App.ErrWriter, "%s\t%s\t%s\t%s\n", f.Severity, f.RuleKey, f.FieldPath, f.Message)
		}
	}

	switch c.String("format") {
	case "json":
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "csv":
		w := csvexport.NewWriter(c.App.Writer)
		if err := w.WriteUnitHeader(); err != nil {
			return err
		}
		if err := w.WriteDocument(doc); err != nil {
			return err
		}
		w.Flush()
		return w.Error()
	default:
		return fmt.Errorf("unknown format %q", c.String("format"))
	}
}

func renderCmd(c *cli.Context) error {
	wh, doc, err := loadDocument(c)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	tc := templateconfig.NewService(nil, cfg.Invoice, cfg.Company, log).Resolve(c.Context, wh.Shop)
	renderer := pdf.NewRenderer(assets.NewLoader(nil, "", c.String("assets")), log)

	out, err := renderer.Render(c.Context, doc, tc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.String("out"), out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", c.String("out"), err)
	}
	log.Info("invoice rendered",
		zap.String("order", doc.Order.Name),
		zap.Int("rows", len(doc.LineItems)),
		zap.String("file", c.String("out")),
	)
	return nil
}

func stateCmd(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("state: buyer state argument is required")
	}
	buyer := c.Args().First()
	seller := c.String("seller")

	code := gst.ResolveStateCode(buyer)
	regime := gst.RegimeFor(gst.IsIntrastate(seller, buyer))
	fmt.Fprintf(c.App.Writer, "state:\t%s\ncode:\t%s\nseller:\t%s (%s)\nregime:\t%s\n",
		buyer, code, seller, gst.ResolveStateCode(seller), regime)
	return nil
}

func tokenCmd(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	token, expiresAt, err := service.NewTokenService(cfg.JWT).IssueToken(c.String("shop"), c.Duration("ttl"))
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "%s\nexpires:\t%s\n", token, expiresAt.UTC().Format(time.RFC3339))
	return nil
}
