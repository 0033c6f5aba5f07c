// Command seedhsn loads the GST HSN/SAC master list from an Excel workbook
// into the hsn_codes table used by the invoice audit.
//
// Usage: seedhsn --file hsn_master.xlsx [--dry-run]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"invoicer/internal/config"
	"invoicer/internal/logger"
	"invoicer/internal/repository/postgres"
)

func main() {
	app := &cli.App{
		Name:  "seedhsn",
		Usage: "load HSN/SAC codes and GST rates from an .xlsx into the database",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "path to the HSN master workbook", Required: true},
			&cli.StringFlag{Name: "goods-sheet", Usage: "goods sheet name (default: first sheet)"},
			&cli.StringFlag{Name: "services-sheet", Value: "SAC_Master", Usage: "services sheet name, empty to skip"},
			&cli.BoolFlag{Name: "dry-run", Usage: "parse and report without writing"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	_ = config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.Init(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	f, err := excelize.OpenFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := readWorkbook(f, c.String("goods-sheet"), c.String("services-sheet"))
	if err != nil {
		return err
	}
	log.Info("workbook parsed", zap.Int("codes", len(entries)))

	if c.Bool("dry-run") {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Context, 5*time.Minute)
	defer cancel()

	db, err := postgres.NewDB(ctx, &cfg.DB, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	n, err := postgres.NewHSNRepo(db).Upsert(ctx, entries)
	if err != nil {
		return err
	}
	log.Info("hsn codes seeded", zap.Int("written", n))
	return nil
}
