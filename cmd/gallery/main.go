// Command gallery uploads, lists, deletes and browses order images from a
// terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/almaghboub/FixerUpper/internal/apiclient"
	"github.com/almaghboub/FixerUpper/internal/config"
	"github.com/almaghboub/FixerUpper/internal/upload"
	"github.com/almaghboub/FixerUpper/pkg/logger"
)

const usage = `usage: gallery <command> [flags]

commands:
  upload <file>        upload an image (accepts %s)
  list                 list one page of order images
  delete <image-id>    delete an image after confirmation
  view                 browse a page in the lightbox viewer
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, upload.AcceptFilter)
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	page := fs.Int("page", 1, "page to start on")
	limit := fs.Int("limit", 0, "images per page (default GALLERY_PAGE_LIMIT)")
	locale := fs.String("locale", "", "display locale, e.g. en or ar (default GALLERY_LOCALE)")
	yes := fs.BoolP("yes", "y", false, "skip the delete confirmation")
	verbose := fs.BoolP("verbose", "v", false, "log requests")
	_ = fs.Parse(args)

	log, err := logger.NewCLI(*verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}
	if *limit > 0 {
		cfg.PageLimit = *limit
	}
	if *locale != "" {
		cfg.Locale = *locale
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli{
		api:    apiclient.New(cfg.BaseURL, log),
		cfg:    cfg,
		log:    log,
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}

	switch cmd {
	case "upload":
		if fs.NArg() != 1 {
			err = fmt.Errorf("upload takes exactly one file")
			break
		}
		err = app.upload(ctx, fs.Arg(0))
	case "list":
		err = app.list(ctx, *page)
	case "delete":
		if fs.NArg() != 1 {
			err = fmt.Errorf("delete takes exactly one image id")
			break
		}
		err = app.delete(ctx, fs.Arg(0), *page, *yes)
	case "view":
		err = app.view(ctx, *page)
	default:
		fmt.Fprintf(os.Stderr, usage, upload.AcceptFilter)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
