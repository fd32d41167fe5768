package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/plantaops/planta-dashboard/internal/aggregate"
	"github.com/plantaops/planta-dashboard/internal/ai"
	"github.com/plantaops/planta-dashboard/internal/cache"
	"github.com/plantaops/planta-dashboard/internal/config"
	"github.com/plantaops/planta-dashboard/internal/service"
	"github.com/plantaops/planta-dashboard/internal/sheets"
	"github.com/plantaops/planta-dashboard/internal/storage"
	"github.com/plantaops/planta-dashboard/pkg/logger"
)

func rangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "start",
			Usage:    "Range start date (YYYY-MM-DD)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "end",
			Usage:    "Range end date (YYYY-MM-DD)",
			Required: true,
		},
	}
}

func parseRange(c *cli.Context) (aggregate.Range, error) {
	return aggregate.NewRange(c.String("start"), c.String("end"))
}

func newReports(c *cli.Context) (*service.Reports, error) {
	cfg := config.Load()
	source, err := sheets.NewClient(c.Context, cfg.Sheets)
	if err != nil {
		return nil, err
	}
	// One-shot runs get no benefit from a snapshot cache.
	return service.NewReports(source, cache.NewNoopCache()), nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func fetchAggregate(c *cli.Context, resource string) (interface{}, error) {
	r, err := parseRange(c)
	if err != nil {
		return nil, err
	}
	reports, err := newReports(c)
	if err != nil {
		return nil, err
	}

	switch resource {
	case "downtime":
		result, _ := reports.Downtime(c.Context, r)
		return result, nil
	case "production":
		result, _ := reports.Production(c.Context, r)
		return result, nil
	case "breakage":
		result, _ := reports.Breakage(c.Context, r)
		return result, nil
	case "stocks":
		result, _ := reports.Stocks(c.Context, r)
		return result, nil
	default:
		return nil, fmt.Errorf("unknown resource %q", resource)
	}
}

func reportAction(resource string) cli.ActionFunc {
	return func(c *cli.Context) error {
		result, err := fetchAggregate(c, resource)
		if err != nil {
			return err
		}
		return printJSON(result)
	}
}

func analyzeAction(c *cli.Context) error {
	r, err := parseRange(c)
	if err != nil {
		return err
	}
	reports, err := newReports(c)
	if err != nil {
		return err
	}
	analyzer := ai.NewAnalyzer(config.Load().AI)

	downtime, _ := reports.Downtime(c.Context, r)
	production, _ := reports.Production(c.Context, r)

	result := analyzer.AnalyzeSummary(c.Context, ai.SummaryInput{
		Production: *production,
		Downtimes:  downtime.Events,
	})
	return printJSON(result)
}

func exportAction(c *cli.Context) error {
	resource := c.String("resource")
	result, err := fetchAggregate(c, resource)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	store, err := storage.NewMinioClient(config.Load().Export)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("reports/%s/%s_%s_%s.json",
		resource, c.String("start"), c.String("end"),
		time.Now().UTC().Format("20060102T150405Z"))

	ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
	defer cancel()

	if err := store.UploadObject(ctx, key, "application/json", payload); err != nil {
		return err
	}
	logger.Log.Info().Str("key", key).Msg("Report exported")
	return nil
}

func main() {
	app := &cli.App{
		Name:  "report",
		Usage: "Fetch, analyze and export plant report aggregates",
		Commands: []*cli.Command{
			{
				Name:   "downtime",
				Usage:  "Print the machine stoppage report for a date range",
				Flags:  rangeFlags(),
				Action: reportAction("downtime"),
			},
			{
				Name:   "production",
				Usage:  "Print the production/OEE report for a date range",
				Flags:  rangeFlags(),
				Action: reportAction("production"),
			},
			{
				Name:   "breakage",
				Usage:  "Print the bag breakage report for a date range",
				Flags:  rangeFlags(),
				Action: reportAction("breakage"),
			},
			{
				Name:   "stocks",
				Usage:  "Print the stock count report for a date range",
				Flags:  rangeFlags(),
				Action: reportAction("stocks"),
			},
			{
				Name:   "analyze",
				Usage:  "Print the plant-wide diagnostic summary for a date range",
				Flags:  rangeFlags(),
				Action: analyzeAction,
			},
			{
				Name:  "export",
				Usage: "Upload a report snapshot to object storage",
				Flags: append(rangeFlags(), &cli.StringFlag{
					Name:  "resource",
					Usage: "Report to export: downtime, production, breakage or stocks",
					Value: "production",
				}),
				Action: exportAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("report command failed")
	}
}
