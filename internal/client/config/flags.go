package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/shipagency/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Only -a, -t and -m are looked at; flagx.FilterArgs drops everything else
// so -c/-config does not trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the agency API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.AgencyEmail, "m", cfg.AgencyEmail, "agency reply address for drafted emails")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
