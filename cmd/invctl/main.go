// invctl herramienta de línea de comandos para operar el inventario sin pasar por la API:
// conteos por tabla, KPIs, lista de reposición, exportación a PDF e importación de productos
// desde CSV (UTF-8 o ISO-8859-1).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/estoque/internal/app"
	"github.com/jhoicas/estoque/internal/application/dto"
	"github.com/jhoicas/estoque/internal/infrastructure/backend"
	"github.com/jhoicas/estoque/internal/infrastructure/csvimport"
	infrapdf "github.com/jhoicas/estoque/internal/infrastructure/pdf"
	"github.com/jhoicas/estoque/pkg/config"
	"github.com/jhoicas/estoque/pkg/logger"
)

var (
	// Flags globales
	driver string

	// report
	outPath  string
	fromDate string
	toDate   string
	topLimit int
	products bool

	// import
	latin1    bool
	semicolon bool
	dryRun    bool
)

var rootCmd = &cobra.Command{
	Use:           "invctl",
	Short:         "Operaciones de inventario desde la terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "backend (postgres | memory); por defecto BACKEND_DRIVER")

	reportCmd.Flags().StringVarP(&outPath, "out", "o", "relatorio.pdf", "archivo PDF de salida")
	reportCmd.Flags().StringVar(&fromDate, "from", "", "desde (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&toDate, "to", "", "hasta (YYYY-MM-DD, inclusivo)")
	reportCmd.Flags().IntVar(&topLimit, "limit", 5, "tamaño del top de productos")
	reportCmd.Flags().BoolVar(&products, "products", false, "exportar el catálogo de productos en vez del reporte")

	importCmd.Flags().BoolVar(&latin1, "latin1", false, "el archivo está en ISO-8859-1")
	importCmd.Flags().BoolVar(&semicolon, "semicolon", false, "separador ';' en vez de ','")
	importCmd.Flags().BoolVar(&dryRun, "dry-run", false, "sólo validar, no crear productos")

	rootCmd.AddCommand(countsCmd, kpisCmd, replenishmentCmd, reportCmd, importCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// withContainer carga configuración, abre el backend y ejecuta fn.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *app.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	if driver != "" {
		cfg.Backend.Driver = driver
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	c, err := app.Build(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(cmd.Context(), c)
}

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Filas por tabla",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			for _, t := range []string{backend.TableProducts, backend.TableCategories, backend.TableSuppliers, backend.TableMovements} {
				res, err := c.Client.List(ctx, t, backend.ListQuery{Columns: []string{"id"}, Range: backend.PageRange(1, 0)})
				if err != nil {
					return fmt.Errorf("contar %s: %w", t, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %d\n", t, res.Count)
			}
			return nil
		})
	},
}

var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Indicadores del dashboard",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			k, err := c.Dashboard.KPIs(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Produtos:            %d\n", k.TotalProducts)
			fmt.Fprintf(out, "Estoque baixo:       %d\n", k.LowStockCount)
			fmt.Fprintf(out, "Movimentações hoje:  %d\n", k.MovementsToday)
			fmt.Fprintf(out, "Valor em estoque:    %s\n", infrapdf.FormatBRL(k.TotalStockValue))
			return nil
		})
	},
}

var replenishmentCmd = &cobra.Command{
	Use:   "replenishment",
	Short: "Productos a reponer, por prioridad",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			list, err := c.Replenishment.GenerateReplenishmentList(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "nada para repor")
				return nil
			}
			for _, s := range list {
				fmt.Fprintf(out, "%2d. %-12s %-30s estoque %d/%d  pedir %d  (%s)\n",
					s.Priority, s.SKU, s.ProductName, s.CurrentStock, s.MinStock,
					s.SuggestedOrderQty, infrapdf.FormatBRL(s.EstimatedOrderCost))
			}
			return nil
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Exporta el reporte de inventario (o el catálogo) a PDF",
	RunE: func(cmd *cobra.Command, _ []string) error {
		in, err := reportRequest()
		if err != nil {
			return err
		}
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			gen := infrapdf.NewMarotoPDFGenerator()
			var doc []byte
			if products {
				data, err := c.Reports.Load(ctx)
				if err != nil {
					return err
				}
				doc, err = gen.GenerateProductsPDF(ctx, data.Products, data.Categories)
				if err != nil {
					return err
				}
			} else {
				r, err := c.Reports.Generate(ctx, in)
				if err != nil {
					return err
				}
				if doc, err = gen.GenerateReportPDF(ctx, r); err != nil {
					return err
				}
			}
			if err := os.WriteFile(outPath, doc, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generado %s (%d bytes)\n", outPath, len(doc))
			return nil
		})
	},
}

func reportRequest() (dto.ReportRequest, error) {
	in := dto.ReportRequest{Limit: topLimit}
	if fromDate != "" {
		t, err := time.Parse("2006-01-02", fromDate)
		if err != nil {
			return in, fmt.Errorf("--from: %w", err)
		}
		in.From = &t
	}
	if toDate != "" {
		t, err := time.Parse("2006-01-02", toDate)
		if err != nil {
			return in, fmt.Errorf("--to: %w", err)
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		in.To = &end
	}
	return in, nil
}

var importCmd = &cobra.Command{
	Use:   "import <archivo.csv>",
	Short: "Importa productos desde un CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		opts := csvimport.Options{Latin1: latin1}
		if semicolon {
			opts.Delimiter = ';'
		}
		rows, rowErrs, err := csvimport.Read(f, opts)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, e := range rowErrs {
			fmt.Fprintln(out, "  ✗", e)
		}
		if dryRun {
			fmt.Fprintf(out, "%d filas válidas, %d con error\n", len(rows), len(rowErrs))
			return nil
		}
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			sum, err := csvimport.Import(ctx, c.ProductUC, rows)
			for _, e := range sum.Failed {
				fmt.Fprintln(out, "  ✗", e)
			}
			fmt.Fprintf(out, "%d productos creados, %d rechazados\n", sum.Created, len(sum.Failed)+len(rowErrs))
			return err
		})
	},
}
