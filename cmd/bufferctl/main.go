// cmd/bufferctl/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/andresuchdata/bufferboard/internal/buffer"
	"github.com/andresuchdata/bufferboard/internal/cache"
	"github.com/andresuchdata/bufferboard/internal/config"
	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/repository/postgres"
	"github.com/andresuchdata/bufferboard/internal/service"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newOrgFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "org",
		Usage:    "Organization id to operate on",
		Required: true,
		EnvVars:  []string{"ORG_ID"},
	}
}

type toolkit struct {
	db      *postgres.DB
	sales   *service.SalesService
	buffers *service.BufferService
	export  *service.ExportService
}

func newToolkit(c *cli.Context) (*toolkit, error) {
	db, err := postgres.NewDBFromURL(c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	cfg := config.Load()
	calc := buffer.NewCalculator(service.PolicyFromConfig(cfg.Buffer))
	noop := cache.NewNoopSummaryCache()

	salesRepo := postgres.NewSalesRepository(db)
	bufferRepo := postgres.NewBufferRepository(db)
	stockRepo := postgres.NewStockRepository(db)
	poRepo := postgres.NewPurchaseOrderRepository(db)
	refRepo := postgres.NewReferenceRepository(db)
	runRepo := postgres.NewRunRepository(db)

	recommendations := service.NewRecommendationService(bufferRepo, stockRepo, poRepo, calc, noop)

	return &toolkit{
		db:      db,
		sales:   service.NewSalesService(salesRepo, calc.Policy(), noop),
		buffers: service.NewBufferService(bufferRepo, salesRepo, poRepo, refRepo, runRepo, calc, noop),
		export:  service.NewExportService(recommendations, nil, cfg.Export.Dir),
	}, nil
}

func runRebuildSales(c *cli.Context) error {
	tk, err := newToolkit(c)
	if err != nil {
		return err
	}
	defer tk.db.Close()

	var rng *domain.DateRange
	if from, to := c.String("from"), c.String("to"); from != "" || to != "" {
		if from == "" || to == "" {
			return fmt.Errorf("--from and --to must be given together")
		}
		f, err := time.Parse("2006-01-02", from)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
		rng = &domain.DateRange{From: f, To: t}
	}

	applied, err := tk.sales.RebuildDailySales(c.Context, c.String("org"), rng)
	if err != nil {
		return err
	}

	fmt.Printf("rebuilt rollups %s..%s\n",
		applied.From.Format("2006-01-02"), applied.To.Format("2006-01-02"))
	return nil
}

func runRecalcBuffers(c *cli.Context) error {
	tk, err := newToolkit(c)
	if err != nil {
		return err
	}
	defer tk.db.Close()

	warehouses := splitList(c.String("warehouses"))
	if len(warehouses) == 0 {
		return fmt.Errorf("--warehouses must list at least one warehouse")
	}

	org := c.String("org")
	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(c.Int("parallel"))

	for _, warehouse := range warehouses {
		warehouse := warehouse
		g.Go(func() error {
			result, err := tk.buffers.Recalc(ctx, org, warehouse, c.Int("lookback-days"))
			if err != nil {
				return fmt.Errorf("recalc %s: %w", warehouse, err)
			}
			fmt.Printf("%s: %d buffers updated (run %d)\n", warehouse, result.Updated, result.RunID)
			return nil
		})
	}

	return g.Wait()
}

func runExport(c *cli.Context) error {
	tk, err := newToolkit(c)
	if err != nil {
		return err
	}
	defer tk.db.Close()

	filter := domain.RecommendationFilter{
		OrgID:       c.String("org"),
		WarehouseID: c.String("warehouse"),
	}
	if date := c.String("date"); date != "" {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		filter.Date = d
	}

	path, err := tk.export.ExportRecommendations(c.Context, filter)
	if err != nil {
		return err
	}

	fmt.Printf("exported to %s\n", path)
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "bufferctl",
		Usage: "Batch operations for the replenishment dashboard",
		Commands: []*cli.Command{
			{
				Name:  "rebuild-sales",
				Usage: "Regenerate daily sales rollups from raw events",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newOrgFlag(),
					&cli.StringFlag{Name: "from", Usage: "Start date (YYYY-MM-DD)"},
					&cli.StringFlag{Name: "to", Usage: "End date (YYYY-MM-DD)"},
				},
				Action: runRebuildSales,
			},
			{
				Name:  "recalc-buffers",
				Usage: "Recompute buffers for one or more warehouses",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newOrgFlag(),
					&cli.StringFlag{
						Name:     "warehouses",
						Usage:    "Comma-separated warehouse codes",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "parallel",
						Usage: "Max warehouses recalculated concurrently",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "lookback-days",
						Usage: "Demand estimation window, 0 for the configured default",
					},
				},
				Action: runRecalcBuffers,
			},
			{
				Name:  "export",
				Usage: "Export a warehouse's recommendations to CSV",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newOrgFlag(),
					&cli.StringFlag{
						Name:     "warehouse",
						Usage:    "Warehouse code",
						Required: true,
					},
					&cli.StringFlag{Name: "date", Usage: "Snapshot date (YYYY-MM-DD), default today"},
				},
				Action: runExport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
