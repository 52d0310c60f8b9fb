package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/stellarburgers/internal/flagx"
)

// parseFlags applies
//
//	-a string   listen address
//	-s string   token secret
//	-t int      access token lifetime, seconds
//	-r int      refresh token lifetime, minutes
//	-v          debug logging
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-t", "-r", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "listen address")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "token secret")
	access := fs.Int("t", int(cfg.AccessTokenTTL.Seconds()), "access token lifetime (in seconds)")
	refresh := fs.Int("r", int(cfg.RefreshTokenTTL.Minutes()), "refresh token lifetime (in minutes)")
	verbose := fs.Bool("v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AccessTokenTTL = time.Duration(*access) * time.Second
	cfg.RefreshTokenTTL = time.Duration(*refresh) * time.Minute
	if *verbose {
		cfg.LogLevel = "debug"
	}
}
