// heliox-analytics runs the forecast and recommendation engines over a
// deterministic synthetic dataset and prints JSON. It is a development
// harness, not a product surface.
//
// Usage:
//
//	heliox-analytics forecast --kind spend --horizon 7 [--provider aws --gpu-type a100]
//	heliox-analytics recommend [--min-severity medium --min-savings 50]
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/Sarishc/Heliox-AI-sub000/config"
	"github.com/Sarishc/Heliox-AI-sub000/demo"
	"github.com/Sarishc/Heliox-AI-sub000/forecast/cache"
	forecastdomain "github.com/Sarishc/Heliox-AI-sub000/forecast/domain"
	forecasts "github.com/Sarishc/Heliox-AI-sub000/forecast/service"
	"github.com/Sarishc/Heliox-AI-sub000/logger"
	recdomain "github.com/Sarishc/Heliox-AI-sub000/recommendations/domain"
	recommendations "github.com/Sarishc/Heliox-AI-sub000/recommendations/service"
)

func main() {
	app := &cli.App{
		Name:  "heliox-analytics",
		Usage: "GPU cost analytics over a synthetic demo dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to a YAML config file overriding the default assumptions",
				EnvVars: []string{"HELIOX_CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			forecastCommand(),
			recommendCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func forecastCommand() *cli.Command {
	return &cli.Command{
		Name:  "forecast",
		Usage: "Forecast daily spend or usage with confidence bands",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "kind",
				Value: "spend",
				Usage: "Series to forecast (spend, usage)",
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "Restrict to one cloud provider",
			},
			&cli.StringFlag{
				Name:  "gpu-type",
				Usage: "Restrict to one GPU type",
			},
			&cli.IntFlag{
				Name:  "horizon",
				Value: 7,
				Usage: "Days to forecast (clamped to 1-30)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			var facade cache.Facade
			if cfg.Cache.RedisAddr != "" {
				facade = cache.NewRedis(cfg.Cache.RedisAddr, logger.FromContext)
			}

			dataset := demo.NewDataset(time.Now().UTC())
			svc := forecasts.NewService(logger.FromContext, dataset, facade, cfg)

			result, err := svc.Forecast(c.Context, &forecastdomain.Query{
				Kind:        forecastdomain.Kind(c.String("kind")),
				Provider:    c.String("provider"),
				GPUType:     c.String("gpu-type"),
				HorizonDays: c.Int("horizon"),
			})
			if err != nil {
				return err
			}

			return printJSON(result)
		},
	}
}

func recommendCommand() *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Generate cost-optimization recommendations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "min-severity",
				Usage: "Drop findings below this severity (low, medium, high)",
			},
			&cli.StringFlag{
				Name:  "min-savings",
				Usage: "Drop findings with estimated savings below this amount in USD",
			},
			&cli.StringSliceFlag{
				Name:  "type",
				Usage: "Keep only these finding types (repeatable)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			dataset := demo.NewDataset(time.Now().UTC())
			start, end := dataset.Window()

			minSeverity := recdomain.Severity(c.String("min-severity"))
			if minSeverity != "" && minSeverity.Rank() == 0 {
				return fmt.Errorf("invalid --min-severity %q", minSeverity)
			}

			filters := &recdomain.Filters{
				StartDate:   start,
				EndDate:     end,
				MinSeverity: minSeverity,
			}

			if raw := c.String("min-savings"); raw != "" {
				minSavings, err := decimal.NewFromString(raw)
				if err != nil {
					return fmt.Errorf("invalid --min-savings %q: %w", raw, err)
				}

				filters.MinSavings = &minSavings
			}

			for _, t := range c.StringSlice("type") {
				filters.Types = append(filters.Types, recdomain.Type(t))
			}

			svc := recommendations.NewService(logger.FromContext, dataset, cfg)

			response, err := svc.GenerateRecommendations(c.Context, filters)
			if err != nil {
				return err
			}

			return printJSON(response)
		},
	}
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
