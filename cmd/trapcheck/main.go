package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lmittmann/tint"
	"github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"

	"github.com/trapcheck/trapcheck/api"
	"github.com/trapcheck/trapcheck/internal/behave"
	"github.com/trapcheck/trapcheck/internal/crashstore"
	"github.com/trapcheck/trapcheck/internal/environment"
	"github.com/trapcheck/trapcheck/internal/executor"
	"github.com/trapcheck/trapcheck/internal/gatherer/natsgath"
	"github.com/trapcheck/trapcheck/internal/gatherer/sqsgath"
	"github.com/trapcheck/trapcheck/internal/gatherer/termgath"
	"github.com/trapcheck/trapcheck/internal/harness"
	"github.com/trapcheck/trapcheck/internal/sandbox"
	"github.com/trapcheck/trapcheck/internal/scenario"
	"github.com/trapcheck/trapcheck/internal/verify"
)

func main() {
	// Child side of the sandbox: the harness binary re-executed with a
	// scenario selector. Must run before any CLI machinery.
	if name := os.Getenv(scenario.EnvScenario); name != "" {
		os.Exit(scenario.RunChild(name))
	}

	cmd := &cli.Command{
		Name:  "trapcheck",
		Usage: "fault-injection conformance harness for trap and exception handling",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			lvl := slog.LevelInfo
			if cmd.Bool("verbose") {
				lvl = slog.LevelDebug
			}
			slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      lvl,
				TimeFormat: time.Kitchen,
			})))
			return ctx, nil
		},
		Commands: []*cli.Command{
			runCommand(),
			listCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run all registered fault scenarios and report conformance",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "behaviour", Aliases: []string{"b"}, Usage: "TOML file with per-target expectation overrides"},
			&cli.IntFlag{Name: "timeout-ms", Usage: "override every scenario's timeout"},
			&cli.StringFlag{Name: "artifacts", Usage: "crash artifact directory (default from env)"},
			&cli.BoolFlag{Name: "nats", Usage: "stream run events to NATS (NATS_URL)"},
			&cli.BoolFlag{Name: "sqs", Usage: "stream run events to SQS (SQS_QUEUE_URL)"},
			&cli.BoolFlag{Name: "json", Usage: "print the run report as JSON instead of tables"},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg := environment.ReadEnvConfig()

	scenarios := scenario.Registry()
	if path := cmd.String("behaviour"); path != "" {
		overrides, err := behave.Parse(path)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		scenarios, err = behave.Apply(scenarios, overrides)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
	}
	if t := int64(cmd.Int("timeout-ms")); t > 0 {
		for i := range scenarios {
			scenarios[i].TimeoutMs = t
		}
	}

	sb, err := sandbox.New()
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	exec := executor.New(sb)

	verifier, err := verify.New(exec)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer verifier.Close()

	artifactDir := cfg.ArtifactDir
	if dir := cmd.String("artifacts"); dir != "" {
		artifactDir = dir
	}
	store, err := crashstore.New(artifactDir)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	var gatherers []harness.Gatherer
	if !cmd.Bool("json") {
		gatherers = append(gatherers, termgath.New())
	}
	if cmd.Bool("nats") {
		nc, err := nats.Connect(cfg.NatsUrl)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to connect to NATS: %v", err), 2)
		}
		defer nc.Close()
		gatherers = append(gatherers, natsgath.New(nc, "trapcheck.runs"))
	}
	if cmd.Bool("sqs") {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AwsRegion))
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to load AWS config: %v", err), 2)
		}
		gatherers = append(gatherers, sqsgath.New(sqs.NewFromConfig(awsCfg), cfg.SqsQueueUrl))
	}

	// A stop request finishes the in-flight executor/verifier pair, then
	// halts before the next scenario.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := harness.New(exec, verifier, gatherers, store)
	report := h.Run(ctx, scenarios)

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return cli.Exit(err.Error(), 2)
		}
	}

	return cli.Exit("", exitCode(report))
}

func exitCode(report *api.RunReport) int {
	if report.Fatal {
		return 2
	}
	code := 0
	for _, r := range report.Results {
		switch r.Verdict {
		case api.VerdictHarnessError:
			return 2
		case api.VerdictFail, api.VerdictTimeout:
			code = 1
		}
	}
	return code
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "print the registered scenario table",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := table.NewWriter()
			w.SetOutputMirror(os.Stdout)
			w.AppendHeader(table.Row{"Scenario", "Expected", "Accepts", "Timeout"})
			for _, sc := range scenario.Registry() {
				accepts := make([]string, 0, sc.Accepts.Cardinality())
				for _, k := range sc.Accepts.ToSlice() {
					accepts = append(accepts, string(k))
				}
				sort.Strings(accepts)
				w.AppendRow(table.Row{
					sc.Name,
					string(sc.Expected),
					fmt.Sprint(accepts),
					fmt.Sprintf("%dms", sc.TimeoutMs),
				})
			}
			w.Render()
			return nil
		},
	}
}
