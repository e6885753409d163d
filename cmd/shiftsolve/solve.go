package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shiftsolve/shiftsolve/internal/config"
	"github.com/shiftsolve/shiftsolve/internal/domain"
	"github.com/shiftsolve/shiftsolve/internal/engine"
	"github.com/shiftsolve/shiftsolve/internal/ingest"
	"github.com/shiftsolve/shiftsolve/internal/logging"
	"github.com/shiftsolve/shiftsolve/internal/solverr"
)

// Exit codes mirror spec.md §6 literally: 0 success, 1 infeasible
// input, 2 no solution found, 3 I/O error.
const (
	exitSuccess    = 0
	exitInfeasible = 1
	exitNoSolution = 2
	exitIOError    = 3
)

type scheduleOutput struct {
	RunID          string              `json:"run_id"`
	AssignedShifts map[string][]string `json:"assigned_shifts"`
	PersonCost     map[string]float64  `json:"per_person_cost"`
	TotalCost      float64             `json:"total_cost"`
	InitialCost    float64             `json:"initial_cost"`
}

func newSolveCmd() *cobra.Command {
	var (
		inputPath  string
		shiftsPath string
		format     string
		outPath    string
		workers    int
		temp       float64
		cooling    float64
		noImprove  int
		seed       int64
		hasSeed    bool
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:           "solve",
		Short:         "Run the builder + parallel simulated-annealing search against an input schedule",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			model, ids, err := readInput(inputPath, shiftsPath, format)
			if err != nil {
				fmt.Fprintln(os.Stderr, "I/O error:", err)
				os.Exit(exitIOError)
			}

			cfg := config.Default()
			cfg.Workers = workers
			cfg.InitialTemperature = temp
			cfg.CoolingRate = cooling
			cfg.MaxIterationsWithoutImprovement = noImprove
			if hasSeed {
				cfg.Seed = &seed
			}

			var logger *zap.Logger
			if !quiet {
				l, err := logging.New("solve")
				if err != nil {
					fmt.Fprintln(os.Stderr, "I/O error:", err)
					os.Exit(exitIOError)
				}
				defer l.Sync()
				logger = l
			}

			result, err := engine.Solve(context.Background(), model, cfg, logger)
			if err != nil {
				switch {
				case solverr.IsKind(err, solverr.KindCapacity):
					fmt.Fprintln(os.Stderr, "infeasible input:", err)
					os.Exit(exitInfeasible)
				case solverr.IsKind(err, solverr.KindNotFound):
					fmt.Fprintln(os.Stderr, "input error:", err)
					os.Exit(exitIOError)
				default:
					fmt.Fprintln(os.Stderr, "no solution found:", err)
					os.Exit(exitNoSolution)
				}
			}

			out := buildOutput(result, ids)
			if err := writeOutput(outPath, out); err != nil {
				fmt.Fprintln(os.Stderr, "I/O error:", err)
				os.Exit(exitIOError)
			}
			os.Exit(exitSuccess)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "path to the people file (JSON input, or people CSV when --format csv)")
	cmd.Flags().StringVar(&shiftsPath, "shifts", "", "path to the shifts CSV file (required when --format csv)")
	cmd.Flags().StringVar(&format, "format", "json", "input format: json or csv")
	cmd.Flags().StringVar(&outPath, "out", "", "output path (stdout if empty)")
	cmd.Flags().IntVar(&workers, "workers", 1, "number of independent annealing restarts")
	cmd.Flags().Float64Var(&temp, "temp", 1000, "initial annealing temperature")
	cmd.Flags().Float64Var(&cooling, "cooling", 0.999, "cooling rate (0,1)")
	cmd.Flags().IntVar(&noImprove, "no-improve", 1000, "no-improvement iteration budget before stopping")
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed for single-worker reproducibility")
	cmd.Flags().BoolVar(&hasSeed, "seeded", false, "treat --seed as set (otherwise each worker gets an independent seed)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress progress logging (logs still default to logs/solve_*.log otherwise)")
	cmd.MarkFlagRequired("input")

	return cmd
}

// readInput loads and converts the schedule input named by inputPath
// (and shiftsPath, for CSV) into a domain.Model.
func readInput(inputPath, shiftsPath, format string) (*domain.Model, ingest.IDMap, error) {
	switch format {
	case "csv":
		people, err := os.Open(inputPath)
		if err != nil {
			return nil, ingest.IDMap{}, err
		}
		defer people.Close()
		shifts, err := os.Open(shiftsPath)
		if err != nil {
			return nil, ingest.IDMap{}, err
		}
		defer shifts.Close()
		return ingest.FromCSV(people, shifts)
	default:
		f, err := os.Open(inputPath)
		if err != nil {
			return nil, ingest.IDMap{}, err
		}
		defer f.Close()
		return ingest.FromJSON(f)
	}
}

// buildOutput translates a solve result back to wire ids via ids, the
// inverse of the translation ingest.ModelFromRecords performed.
func buildOutput(result engine.Result, ids ingest.IDMap) scheduleOutput {
	assigned := make(map[string][]string, len(result.Assignment.People()))
	for pid, wireID := range ids.Person {
		shifts := result.Assignment.Person(pid)
		if len(shifts) == 0 {
			continue
		}
		names := make([]string, 0, len(shifts))
		for _, sid := range shifts {
			names = append(names, ids.Shift[sid])
		}
		assigned[wireID] = names
	}

	personCost := make(map[string]float64, len(result.Breakdown.PerPerson))
	for pid, pb := range result.Breakdown.PerPerson {
		personCost[ids.Person[pid]] = pb.Total()
	}

	return scheduleOutput{
		RunID:          result.RunID,
		AssignedShifts: assigned,
		PersonCost:     personCost,
		TotalCost:      result.Breakdown.Total,
		InitialCost:    result.InitialCost,
	}
}

func writeOutput(path string, out scheduleOutput) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(path, data, 0o644)
}
