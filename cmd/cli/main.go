package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"diaquant/internal"
	"diaquant/internal/config"
	"diaquant/internal/ingest"
	"diaquant/internal/pipeline"
)

func main() {
	// Optional .env for local runs; absence is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "diaquant",
		Short: "Exploratory statistical analysis for DIA proteomics quantification data",
	}
	rootCmd.AddCommand(newAnalyzeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var (
		seed           int64
		hierClusters   int
		kmeansClusters int
		outDir         string
	)

	cmd := &cobra.Command{
		Use:   "analyze [input-file]",
		Short: "Run the full pipeline on a TSV or XLSX quantification export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Analysis.Seed = seed
			}
			if cmd.Flags().Changed("hier-clusters") {
				cfg.Analysis.HierClusters = hierClusters
			}
			if cmd.Flags().Changed("kmeans-clusters") {
				cfg.Analysis.KMeansClusters = kmeansClusters
			}
			if outDir != "" {
				cfg.Paths.OutputDir = outDir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			raw, err := ingest.ReadFile(args[0])
			if err != nil {
				return err
			}

			res, err := pipeline.New(cfg, internal.DefaultLogger).Run(raw)
			if err != nil {
				return err
			}
			return writeOutputs(cfg.Paths.OutputDir, res)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for imputation and clustering")
	cmd.Flags().IntVar(&hierClusters, "hier-clusters", 3, "hierarchical cluster count")
	cmd.Flags().IntVar(&kmeansClusters, "kmeans-clusters", 4, "k-means cluster count")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default current directory)")
	return cmd
}

// writeOutputs renders the four result tables as TSV files.
func writeOutputs(dir string, res *pipeline.RunResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	summary := [][]string{{"cell_line", "condition", "count", "mean", "median", "std_dev", "min", "max"}}
	for _, s := range res.Summaries {
		summary = append(summary, []string{
			s.CellLine, string(s.Condition), strconv.Itoa(s.Count),
			f(s.Mean), f(s.Median), f(s.StdDev), f(s.Min), f(s.Max),
		})
	}
	if err := writeTSV(filepath.Join(dir, "group_summary.tsv"), summary); err != nil {
		return err
	}

	tests := [][]string{{"cell_line", "replicate", "test", "statistic", "p_value", "n_vehicle", "n_treat"}}
	for _, t := range res.ReplicateTests.Results {
		tests = append(tests, []string{
			t.CellLine, strconv.Itoa(t.Replicate), string(t.Kind),
			f(t.Statistic), f(t.PValue), strconv.Itoa(t.NVehicle), strconv.Itoa(t.NTreat),
		})
	}
	if err := writeTSV(filepath.Join(dir, "replicate_tests.tsv"), tests); err != nil {
		return err
	}

	entities := [][]string{{"entity", "p_value", "n_vehicle", "n_treat", "significant"}}
	for _, e := range res.EntityTests.Results {
		entities = append(entities, []string{
			e.Entity.String(), f(e.PValue),
			strconv.Itoa(e.NVehicle), strconv.Itoa(e.NTreat),
			strconv.FormatBool(e.Significant),
		})
	}
	if err := writeTSV(filepath.Join(dir, "entity_significance.tsv"), entities); err != nil {
		return err
	}

	if res.Clusters != nil {
		clusters := [][]string{{"entity", "hierarchical", "kmeans", "pc1", "pc2"}}
		for _, a := range res.Clusters.Assignments {
			clusters = append(clusters, []string{
				a.Entity.String(), strconv.Itoa(a.Hierarchical), strconv.Itoa(a.KMeans),
				f(a.PC1), f(a.PC2),
			})
		}
		if err := writeTSV(filepath.Join(dir, "cluster_assignments.tsv"), clusters); err != nil {
			return err
		}
	}
	return nil
}

func writeTSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Comma = '\t'
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
