package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"dupescan/internal/deps"
	"dupescan/internal/detector"
	"dupescan/internal/logging"
	"dupescan/internal/metacache"
	"dupescan/internal/report"
	"dupescan/internal/scanner"
	"dupescan/internal/thumbs"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		workers    int
		format     string
		outputPath string
		noCache    bool
		noProgress bool
		thumbnails bool
	)

	cmd := &cobra.Command{
		Use:   "scan [directory...]",
		Short: "Scan directories for duplicate videos and report recommended actions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if format == "" {
				format = cfg.Report.Format
			}
			format = strings.ToLower(strings.TrimSpace(format))
			switch format {
			case "table", "text", "json", "html":
			default:
				return fmt.Errorf("unknown format %q (expected table, text, json, or html)", format)
			}

			logger, err := logging.NewWithFile(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Writer: cmd.ErrOrStderr(),
			}, cfg.Paths.LogDir)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			runID := uuid.NewString()
			logger = logger.With(logging.FieldRunID, runID)

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("missing required dependencies: %s (run 'dupescan deps')", strings.Join(missing, ", "))
			}

			var cache *metacache.Store
			if cfg.Cache.Enabled && !noCache {
				cache, err = metacache.Open(cfg.Paths.CacheDir, metacache.Options{
					FlushEvery: cfg.Cache.FlushEvery,
					Logger:     logger,
				})
				if err != nil {
					return fmt.Errorf("open metadata cache: %w", err)
				}
				defer cache.Close()
			}

			workerCount := workers
			if workerCount <= 0 {
				workerCount = cfg.Scanner.Workers
			}

			scan := scanner.New(scanner.FFprobeProber(cfg.FFprobeBinary()), scanner.Options{
				Extensions:   cfg.Scanner.Extensions,
				Workers:      workerCount,
				Cache:        cache,
				ShowProgress: !noProgress && stderrIsTerminal(),
				Logger:       logger,
			})
			store, stats, err := scan.Scan(cmd.Context(), args)
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}

			det := detector.New(store, cfg.Tunables(), logger)
			groups := det.Groups()

			var thumbnailer report.Thumbnailer
			if format == "html" && (thumbnails || cfg.Report.Thumbnails) {
				if available := statusFor(statuses, "ffmpeg"); available {
					generator, err := thumbs.New(
						thumbs.FFmpegExtractor(cfg.FFmpegBinary()),
						cfg.Paths.ThumbnailDir,
						thumbs.Options{
							Width:  cfg.Report.ThumbnailWidth,
							Height: cfg.Report.ThumbnailHeight,
							Logger: logger,
						})
					if err != nil {
						return fmt.Errorf("initialize thumbnails: %w", err)
					}
					thumbnailer = generator
				} else {
					logger.Warn("thumbnails requested but ffmpeg is unavailable")
				}
			}

			rep := report.Build(cmd.Context(), store, det, groups, report.Options{
				RunID:       runID,
				Roots:       args,
				Thumbnailer: thumbnailer,
			})

			out, closeOut, err := openOutput(cmd, cfg.Paths.ReportDir, outputPath, format, runID)
			if err != nil {
				return err
			}
			defer closeOut()

			switch format {
			case "json":
				err = rep.RenderJSON(out)
			case "text":
				err = rep.RenderText(out)
			case "html":
				err = rep.RenderHTML(out)
			default:
				err = renderScanTables(out, rep, stats)
			}
			if err != nil {
				return fmt.Errorf("render report: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent probe workers (defaults to scanner.workers)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table, text, json, or html")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Probe every file even when cached metadata exists")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the probe progress bar")
	cmd.Flags().BoolVar(&thumbnails, "thumbs", false, "Generate preview thumbnails (html format only)")
	return cmd
}

// openOutput resolves where the rendered report goes. HTML reports default
// to a file under the report directory so the browser can open them; other
// formats default to stdout.
func openOutput(cmd *cobra.Command, reportDir, outputPath, format, runID string) (io.Writer, func(), error) {
	noop := func() {}
	target := strings.TrimSpace(outputPath)
	if target == "" || target == "-" {
		if format == "html" && target == "" {
			target = filepath.Join(reportDir, fmt.Sprintf("dupescan-%s.html", runID))
		} else {
			return cmd.OutOrStdout(), noop, nil
		}
	}

	file, err := os.Create(target)
	if err != nil {
		return nil, noop, fmt.Errorf("create report file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Writing report to %s\n", target)
	return file, func() { _ = file.Close() }, nil
}

func renderScanTables(out io.Writer, rep *report.Report, stats scanner.Stats) error {
	fmt.Fprintf(out, "Scanned %d files (%d probed, %d cached, %d failures)\n",
		stats.Discovered, stats.Probed, stats.CacheHits, stats.ProbeFailures)
	if len(rep.Groups) == 0 {
		fmt.Fprintln(out, "No duplicate groups found.")
		return nil
	}
	fmt.Fprintf(out, "%d duplicate group(s), %s recoverable\n",
		rep.Summary.GroupCount, humanize.Bytes(uint64(rep.Summary.PotentialSavings)))

	for _, group := range rep.Groups {
		fmt.Fprintf(out, "\n%s (confidence %.2f)\n", group.Filename, group.Confidence)

		rows := [][]string{{
			"preserve",
			group.Original.Path,
			humanize.Bytes(uint64(group.Original.Size)),
			group.Original.Resolution,
			"",
		}}
		for _, dup := range group.Duplicates {
			path := dup.Path
			if dup.Rotated {
				path += " (rotated)"
			}
			rows = append(rows, []string{
				dup.Action,
				path,
				humanize.Bytes(uint64(dup.Size)),
				dup.Resolution,
				fmt.Sprintf("%.2f", dup.Score),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Action", "File", "Size", "Resolution", "Score"},
			rows, 2, 4))

		for _, finding := range group.Findings {
			fmt.Fprintf(out, "  ! %s (%s): %s\n", finding.Type, finding.Severity, finding.Details)
		}
	}
	return nil
}

func statusFor(statuses []deps.Status, name string) bool {
	for _, status := range statuses {
		if status.Name == name {
			return status.Available
		}
	}
	return false
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
