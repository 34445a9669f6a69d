package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/rook-computer/mapcanvas/internal/app"
	"github.com/rook-computer/mapcanvas/internal/cmd"
	"github.com/rook-computer/mapcanvas/internal/web"
)

const debugLogPath = "./mapcanvas-debug.log"

func main() {
	srvCfg, err := web.DefaultServerConfigFromEnv(web.DefaultListenAddr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid environment:", err)
		os.Exit(2)
	}

	var flags cmd.Flags
	parser, err := cmd.Parser(&flags, srvCfg, kong.UsageOnError())
	if err != nil {
		panic(err)
	}

	cfgArgs, err := cmd.LoadConfig()
	parser.FatalIfErrorf(err)
	_, err = parser.Parse(append(cfgArgs, os.Args[1:]...))
	parser.FatalIfErrorf(err)

	// Panics from the tick loop end up in the file even while a preview owns
	// the terminal or the console is in graphics mode.
	if flags.StdioLog != "" {
		if err := redirectStdIO(flags.StdioLog); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	var logger app.Logger = app.NoopLogger{}
	if flags.Debug {
		f, err := os.OpenFile(debugLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Setup(ctx, &flags, logger)
	parser.FatalIfErrorf(err)
	if flags.Scenes() == 0 && flags.Listen == "" {
		fmt.Fprintln(os.Stderr, "no maps to render: pass a map flag or --listen")
	}

	runErr := a.Start(ctx)
	if err := a.Stop(); err != nil {
		logger.Errorf("main", "stop error: %v", err)
	}
	parser.FatalIfErrorf(runErr)
}
