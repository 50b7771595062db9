package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	agencypersistence "github.com/crewdir/crewdir/modules/agency/infrastructure/persistence"
	"github.com/crewdir/crewdir/modules/bulkimport/importer"
	bulkimportservices "github.com/crewdir/crewdir/modules/bulkimport/services"
	"github.com/crewdir/crewdir/pkg/composables"
	"github.com/crewdir/crewdir/pkg/configuration"
)

type importOptions struct {
	input string
	apply bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import agencies from a CSV or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "CSV or XLSX file to import (required)")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Commit valid rows (default is dry-run)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runImport(ctx context.Context, opts importOptions) error {
	if strings.TrimSpace(opts.input) == "" {
		return withCode(exitUsage, fmt.Errorf("--input is required"))
	}

	data, err := os.ReadFile(opts.input)
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("read input: %w", err))
	}

	pool, err := connectDB(ctx)
	if err != nil {
		return withCode(exitDB, err)
	}
	defer pool.Close()
	ctx = composables.WithPool(ctx, pool)

	conf := configuration.Use()
	service := bulkimportservices.NewImportService(
		agencypersistence.NewAgencyRepository(), nil, conf.Import.MaxRows,
	)

	decoded := service.Decode(filepath.Base(opts.input), "", data)
	if !decoded.Success {
		if err := writeJSONLine(map[string]any{
			"stage":  "decode",
			"errors": decoded.Errors,
		}); err != nil {
			return err
		}
		return withCode(exitValidation, fmt.Errorf("input failed to decode"))
	}

	results, summary, err := service.Preview(ctx, decoded.Data)
	if err != nil {
		return withCode(exitDB, fmt.Errorf("validate: %w", err))
	}

	if !opts.apply {
		return writeJSONLine(map[string]any{
			"stage":   "dry_run",
			"summary": summary,
			"results": results,
		})
	}

	commitRows := make([]importer.CommitRow, 0, summary.Valid)
	for _, res := range results {
		if res.Valid {
			commitRows = append(commitRows, importer.CommitRow{RowNumber: res.RowNumber, Data: res.Data})
		}
	}

	response, err := service.Commit(ctx, commitRows)
	if err != nil {
		return withCode(exitDB, fmt.Errorf("commit: %w", err))
	}

	if err := writeJSONLine(map[string]any{
		"stage":      "applied",
		"validation": summary,
		"commit":     response.Summary,
		"results":    response.Results,
	}); err != nil {
		return err
	}

	if response.Summary.Failed > 0 {
		return withCode(exitDB, fmt.Errorf("%d rows failed to commit", response.Summary.Failed))
	}
	return nil
}

func connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, configuration.Use().Database.Opts)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return pool, nil
}

func writeJSONLine(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return withCode(exitDB, fmt.Errorf("json encode: %w", err))
	}
	return nil
}
