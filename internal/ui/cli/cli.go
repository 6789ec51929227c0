package cli

import (
	"flag"
	"io"

	"unusedvar/internal/core/config"
)

const defaultConfigPath = "./" + config.DefaultFile

type cliOptions struct {
	configPath     string
	once           bool
	ui             bool
	format         string
	stdin          bool
	failOnFindings bool
	history        bool
	since          string
	historyWindow  string
	historyTSV     string
	historyJSON    string
	verbose        bool
	version        bool
	args           []string
}

func parseOptions(args []string, output io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("unusedvar", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file (defaults apply when it does not exist)")
	fs.BoolVar(&opts.once, "once", false, "Run a single scan and exit")
	fs.BoolVar(&opts.ui, "ui", false, "Enable terminal UI mode")
	fs.StringVar(&opts.format, "format", "text", "Report format written to stdout: text, sarif, tsv, markdown or yaml")
	fs.BoolVar(&opts.stdin, "stdin", false, "Scan source text from stdin and exit")
	fs.BoolVar(&opts.failOnFindings, "fail-on-findings", false, "Exit with code 2 when unused variables are found")
	fs.BoolVar(&opts.history, "history", false, "Scan once, print the trend of recorded scan runs and exit (requires db.enabled)")
	fs.StringVar(&opts.since, "since", "", "Include runs at/after this timestamp (RFC3339 or YYYY-MM-DD)")
	fs.StringVar(&opts.historyWindow, "history-window", "24h", "Moving-window duration for trend averages (requires --history)")
	fs.StringVar(&opts.historyTSV, "history-tsv", "", "Write trend report TSV to this path (requires --history)")
	fs.StringVar(&opts.historyJSON, "history-json", "", "Write trend report JSON to this path (requires --history)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
