package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/craftbond/sitecms/config"
	"github.com/craftbond/sitecms/internal/adminapi"
	"github.com/craftbond/sitecms/internal/app"
	"github.com/craftbond/sitecms/internal/webserver"
)

var (
	h       = flag.Bool("h", false, "help usage")
	showVer = flag.Bool("v", false, "show version")
	cfile   = flag.String("c", "sitecms.yml", "config file")
	initdb  = flag.Bool("initdb", false, "drop and recreate the database schema")
	initcfg = flag.Bool("initcfg", false, "write a default config file and exit")
)

var gitCommit string

func printVersion() {
	fmt.Printf("sitecms %s\n", gitCommit)
}

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		os.Exit(0)
	}
	if *showVer {
		printVersion()
		os.Exit(0)
	}

	if *initcfg {
		if err := config.WriteDefaultConfig(*cfile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	appConfig := config.LoadConfig(*cfile)
	application := app.NewApplication(appConfig)
	application.Init(appConfig)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	ws := webserver.Init(application, webserver.NewAuthPolicy(appConfig, application.DB()))
	adminapi.InitRouter(application)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ws.Listen(ctx)
	})

	if err := g.Wait(); err != nil {
		zap.S().Error(err)
	}
}
