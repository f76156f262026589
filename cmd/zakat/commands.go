package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/zakat/internal/combined"
	"github.com/mtlprog/zakat/internal/config"
	"github.com/mtlprog/zakat/internal/domain"
	"github.com/mtlprog/zakat/internal/export"
	"github.com/mtlprog/zakat/internal/ledger"
	"github.com/mtlprog/zakat/internal/nisab"
	"github.com/mtlprog/zakat/internal/pricefeed"
	"github.com/mtlprog/zakat/internal/valuation"
)

func currencyFlag(cfg config.Config) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "currency",
		Aliases: []string{"c"},
		Value:   cfg.DefaultCurrency,
		Usage:   "display currency code",
	}
}

// loadTable reads prices from --prices or fetches them from the configured feed.
func loadTable(c *cli.Context, cfg config.Config) (domain.PriceTable, error) {
	if path := c.String("prices"); path != "" {
		return pricefeed.LoadFile(path)
	}
	if cfg.PriceFeedURL == "" {
		return nil, errors.New("no prices: pass --prices or set PRICE_FEED_URL")
	}
	client := pricefeed.NewClient(cfg.PriceFeedURL, cfg.FeedTimeout, cfg.FeedRetryBaseDelay, cfg.FeedRetryMax)
	return client.Fetch(c.Context)
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "xlsx", Usage: "write the report to this Excel file"},
		&cli.StringFlag{Name: "spreadsheet", Usage: "write the report to this Google spreadsheet ID"},
		&cli.StringFlag{Name: "credentials", Usage: "service account JSON file (defaults to GOOGLE_CREDENTIALS_JSON)"},
	}
}

func nisabCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "nisab",
		Usage: "print the gold and silver Nisab thresholds",
		Flags: []cli.Flag{currencyFlag(cfg)},
		Action: func(c *cli.Context) error {
			table, err := loadTable(c, cfg)
			if err != nil {
				return err
			}
			currency := domain.NormalizeCurrency(c.String("currency"))
			th, err := nisab.Thresholds(table, currency)
			if err != nil {
				return err
			}
			printThresholds(c.App.Writer, th, table[currency].Symbol)
			return nil
		},
	}
}

func valueCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:      "value",
		Usage:     "value one declaration, e.g. value --kind gold \"2.5 tola\"",
		ArgsUsage: "AMOUNT",
		Flags: []cli.Flag{
			currencyFlag(cfg),
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Value: string(domain.KindGold), Usage: "gold, silver or money"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one AMOUNT argument", 2)
			}
			kind, err := domain.ParseKind(c.String("kind"))
			if err != nil {
				return err
			}
			table, err := loadTable(c, cfg)
			if err != nil {
				return err
			}
			currency := domain.NormalizeCurrency(c.String("currency"))
			decl, err := valuation.ParseDeclaration(kind, c.Args().First(), currency)
			if err != nil {
				return err
			}
			value, err := valuation.Value(decl, table, currency)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s = %s\n", decl, domain.FormatMoney(value, currency, table[currency].Symbol))
			return nil
		},
	}
}

func combinedCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "combined",
		Usage: "compute Zakat on gold, silver and cash held together",
		Flags: append([]cli.Flag{
			currencyFlag(cfg),
			&cli.StringFlag{Name: "gold", Usage: "gold weight, e.g. 10g or 2 tola"},
			&cli.StringFlag{Name: "silver", Usage: "silver weight"},
			&cli.StringFlag{Name: "money", Usage: "cash in the display currency"},
		}, exportFlags()...),
		Action: func(c *cli.Context) error {
			table, err := loadTable(c, cfg)
			if err != nil {
				return err
			}
			currency := domain.NormalizeCurrency(c.String("currency"))

			var in combined.Inputs
			if in.Gold, err = valuation.ParseOptional(domain.KindGold, c.String("gold"), currency); err != nil {
				return err
			}
			if in.Silver, err = valuation.ParseOptional(domain.KindSilver, c.String("silver"), currency); err != nil {
				return err
			}
			if in.Money, err = valuation.ParseOptional(domain.KindMoney, c.String("money"), currency); err != nil {
				return err
			}

			res, err := combined.Compute(in, table, currency)
			if err != nil {
				return err
			}
			symbol := table[currency].Symbol
			printCombined(c.App.Writer, res, symbol)
			return exportReport(c, cfg, export.CombinedReport(res, symbol, time.Now()))
		},
	}
}

func ledgerCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "ledger",
		Usage: "admit declarations one by one and report the Zakat due on the total",
		Flags: append([]cli.Flag{
			currencyFlag(cfg),
			&cli.StringSliceFlag{
				Name:    "add",
				Aliases: []string{"a"},
				Usage:   fmt.Sprintf("kind:amount with kind one of %s, e.g. gold:\"100 g\" (repeatable)", strings.Join(valuation.SupportedKinds(), ", ")),
			},
			&cli.StringFlag{Name: "switch", Usage: "re-denominate the ledger into this currency after adding"},
		}, exportFlags()...),
		Action: func(c *cli.Context) error {
			table, err := loadTable(c, cfg)
			if err != nil {
				return err
			}
			out := c.App.Writer
			l := ledger.New(domain.NormalizeCurrency(c.String("currency")))

			for _, raw := range c.StringSlice("add") {
				decl, err := valuation.ParseTagged(raw, l.Currency())
				if err != nil {
					return err
				}
				rec, err := l.Add(decl, table, l.Currency())
				var below *ledger.BelowNisabError
				switch {
				case errors.As(err, &below):
					fmt.Fprintf(out, "rejected %s: %v\n", decl, below)
				case err != nil:
					return err
				default:
					fmt.Fprintf(out, "added %s = %s\n", decl, domain.FormatMoney(rec.ValuedAmount, rec.ValuationCurrency, table[rec.ValuationCurrency].Symbol))
				}
			}

			if target := c.String("switch"); target != "" {
				if err := l.ChangeCurrency(domain.NormalizeCurrency(target), table); err != nil {
					return err
				}
			}

			sum, err := l.CurrentZakat(table)
			if err != nil {
				return err
			}
			symbol := table[l.Currency()].Symbol
			snap := l.Snapshot()
			printLedger(out, snap, sum, symbol)

			return exportReport(c, cfg, export.LedgerReport(snap, sum, symbol, time.Now()))
		},
	}
}

// exportReport writes the report to every destination named by the export flags.
func exportReport(c *cli.Context, cfg config.Config, report export.Report) (err error) {
	type target struct {
		w    export.ReportWriter
		done string
	}
	var targets []target

	if path := c.String("xlsx"); path != "" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return fmt.Errorf("creating %s: %w", path, cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing %s: %w", path, cerr)
			}
		}()
		targets = append(targets, target{w: export.NewXLSXWriter(f), done: "wrote " + path})
	}
	if id := c.String("spreadsheet"); id != "" {
		creds, cerr := credentials(c.String("credentials"), cfg)
		if cerr != nil {
			return cerr
		}
		w, werr := export.NewSheetsWriter(c.Context, id, creds)
		if werr != nil {
			return werr
		}
		targets = append(targets, target{w: w, done: "updated spreadsheet " + id})
	}

	for _, t := range targets {
		if err := t.w.Write(c.Context, report); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, t.done)
	}
	return nil
}

func credentials(path string, cfg config.Config) (string, error) {
	if path == "" {
		if cfg.GoogleCredentialsJSON == "" {
			return "", errors.New("no credentials: pass --credentials or set GOOGLE_CREDENTIALS_JSON")
		}
		return cfg.GoogleCredentialsJSON, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading credentials: %w", err)
	}
	return string(data), nil
}

func printThresholds(w io.Writer, th domain.Thresholds, symbol string) {
	fmt.Fprintf(w, "Nisab in %s\n", th.Currency)
	fmt.Fprintf(w, "  gold   %s g\t%s\n", nisab.GoldNisabGrams, domain.FormatMoney(th.Gold, th.Currency, symbol))
	fmt.Fprintf(w, "  silver %s g\t%s\n", nisab.SilverNisabGrams, domain.FormatMoney(th.Silver, th.Currency, symbol))
}

func printEligibility(w io.Writer, el domain.Eligibility, due decimal.Decimal, currency domain.CurrencyCode, symbol string) {
	fmt.Fprintf(w, "eligible by gold: %t, by silver: %t\n", el.ByGold, el.BySilver)
	if !el.Eligible {
		fmt.Fprintln(w, "below Nisab, no Zakat due")
		return
	}
	fmt.Fprintf(w, "Zakat due: %s\n", domain.FormatMoney(due, currency, symbol))
}

func printCombined(w io.Writer, res domain.CombinedResult, symbol string) {
	for _, line := range res.Breakdown {
		fmt.Fprintf(w, "  %-6s %-12s %s\n", line.Kind, line.DisplayAmount, domain.FormatMoney(line.ValuedAmount, res.Currency, symbol))
	}
	fmt.Fprintf(w, "total: %s\n", domain.FormatMoney(res.TotalValue, res.Currency, symbol))
	printEligibility(w, domain.Eligibility{
		ByGold:   res.IsEligibleByGold,
		BySilver: res.IsEligibleBySilver,
		Eligible: res.IsEligible,
	}, res.ZakatAmount, res.Currency, symbol)
}

func printLedger(w io.Writer, snap domain.LedgerSnapshot, sum domain.ZakatSummary, symbol string) {
	fmt.Fprintf(w, "ledger in %s, %d records\n", snap.Currency, len(snap.Records))
	fmt.Fprintf(w, "  gold %s g, silver %s g\n", snap.TotalWeight.Gold, snap.TotalWeight.Silver)
	fmt.Fprintf(w, "total: %s\n", domain.FormatMoney(sum.Total, sum.Currency, symbol))
	printEligibility(w, sum.Eligibility, sum.ZakatDue, sum.Currency, symbol)
}
