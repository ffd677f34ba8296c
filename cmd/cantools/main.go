// Command cantools loads one or more DBC files and runs the decode
// filter described in candb.DecodeLines over stdin, writing to stdout.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/wb9osz/cantools-go/candb"
)

// cliConfig is the shape of the optional --config YAML file: defaults
// for flags a user doesn't want to retype on every invocation.
type cliConfig struct {
	Verbose  bool `yaml:"verbose"`
	Describe bool `yaml:"describe"`
}

func loadConfig(path string) (cliConfig, error) {
	var cfg cliConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("cantools", pflag.ContinueOnError)
	verbose := flags.Bool("verbose", false, "Log diagnostic detail for each loaded file to stderr.")
	describe := flags.Bool("describe", false, "Print a YAML summary of each loaded database to stderr.")
	configFile := flags.String("config", "", "YAML file of default flag values.")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: cantools decode [--verbose] [--describe] [--config FILE] <dbfile> [dbfile...]")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}

	rest := flags.Args()
	if len(rest) < 1 || rest[0] != "decode" {
		flags.Usage()
		return 2
	}
	dbFiles := rest[1:]
	if len(dbFiles) == 0 {
		flags.Usage()
		return 2
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if cfg.Verbose && !flags.Changed("verbose") {
		*verbose = true
	}
	if cfg.Describe && !flags.Changed("describe") {
		*describe = true
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if !*verbose {
		logger.SetLevel(log.WarnLevel)
	}

	db := &candb.Database{}
	for _, path := range dbFiles {
		logger.Info("loading database", "path", path)
		if err := db.AddDBCFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "cantools: %s: %v\n", path, err)
			return 1
		}
	}
	logger.Info("databases loaded", "messages", len(db.Messages), "nodes", len(db.Nodes))

	if *describe {
		summary, err := db.Describe()
		if err != nil {
			fmt.Fprintf(os.Stderr, "cantools: describe: %v\n", err)
			return 1
		}
		fmt.Fprint(os.Stderr, summary)
	}

	if err := candb.DecodeLines(db, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "cantools: %v\n", err)
		return 1
	}
	return 0
}
