// Package main is an entrypoint for the news admin console.
package main

import (
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/jessevdk/go-flags"
	"github.com/thomaskoefod/newsadmin/internal/cmd"
	"github.com/thomaskoefod/newsadmin/internal/config"
)

var opts struct {
	Run     cmd.Run     `command:"run" description:"run the admin console"`
	Check   cmd.Check   `command:"check" description:"check that the backend answers"`
	Journal cmd.Journal `command:"journal" description:"print recent mutations"`
	Config  cmd.Config  `command:"config" description:"write the effective configuration"`

	ConfigPath string `long:"config" env:"NEWSADMIN_CONFIG" description:"path to the config file"`
	JSONLogs   bool   `long:"json-logs" env:"JSON_LOGS" description:"turn on json logs"`
	Debug      bool   `long:"dbg" env:"DEBUG" description:"turn on debug mode"`
}

var version = "unknown"

func getVersion() string {
	v, ok := debug.ReadBuildInfo()
	if !ok || v.Main.Version == "(devel)" {
		return version
	}
	return v.Main.Version
}

func main() {
	p := flags.NewParser(&opts, flags.Default)
	p.CommandHandler = func(command flags.Commander, args []string) error {
		common := cmd.CommonOpts{
			ConfigPath: opts.ConfigPath,
			Debug:      opts.Debug,
			JSONLogs:   opts.JSONLogs,
			Version:    getVersion(),
		}
		if common.ConfigPath == "" {
			common.ConfigPath = config.DefaultConfigPath()
		}
		cmd.SetupLog(os.Stderr, common.Debug, common.JSONLogs)

		if c, ok := command.(interface{ SetCommon(cmd.CommonOpts) }); ok {
			c.SetCommon(common)
		}

		if err := command.Execute(args); err != nil {
			slog.Error("failed to execute command", slog.Any("err", err))
			os.Exit(1)
		}

		return nil
	}

	// after failure command does not return non-zero code
	if _, err := p.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		} else {
			slog.Error("failed to parse flags", slog.Any("err", err))
			os.Exit(1)
		}
	}
}
