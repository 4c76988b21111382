package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"procurement/internal/app/config"
	"procurement/internal/client"
	"procurement/internal/intake/notice"

	log "github.com/sirupsen/logrus"
)

const usage = `Usage: intake <command> [flags]

Commands:
  list      show submitted requests
  status    change the status of a request
  extract   pre-fill a draft from a document and print it
  submit    build a draft and submit it
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Error(err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}

	cfg, err := config.NewClientConfig()
	if err != nil {
		return err
	}

	api := client.New(cfg.BackendURL, client.WithTimeout(cfg.Timeout))
	notices := notice.NewCenter(cfg.NoticeTTL)
	notices.Subscribe(func(n *notice.Notice) {
		if n != nil {
			fmt.Fprintf(stderr, "[%s] %s\n", n.Kind, n.Text)
		}
	})

	cmd := &command{api: api, notices: notices, stdout: stdout, stderr: stderr}

	switch args[0] {
	case "list":
		return cmd.list(ctx, args[1:])
	case "status":
		return cmd.status(ctx, args[1:])
	case "extract":
		return cmd.extract(ctx, args[1:])
	case "submit":
		return cmd.submit(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return errUsage
	}
}
