package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/almaghboub/FixerUpper/internal/config"
	"github.com/almaghboub/FixerUpper/internal/domain"
	"github.com/almaghboub/FixerUpper/internal/gallery"
	"github.com/almaghboub/FixerUpper/internal/notify"
	"github.com/almaghboub/FixerUpper/internal/upload"
)

type backend interface {
	upload.API
	gallery.API
}

type cli struct {
	api    backend
	cfg    *config.ClientConfig
	log    *zap.Logger
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	scanner *bufio.Scanner
}

func (c *cli) notifier() notify.Notifier {
	return notify.Multi(notify.NewZap(c.log), notify.Func(func(n notify.Notification) {
		fmt.Fprintf(c.errOut, "[%s] %s: %s\n", n.Severity, n.Title, n.Description)
	}))
}

func (c *cli) newGallery(page int) *gallery.Gallery {
	return gallery.New(c.api, c.cfg.PageLimit,
		gallery.WithPage(page),
		gallery.WithNotifier(c.notifier()),
		gallery.WithLogger(c.log))
}

func (c *cli) readLine() (string, bool) {
	if c.scanner == nil {
		c.scanner = bufio.NewScanner(c.in)
	}
	if !c.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.scanner.Text()), true
}

func (c *cli) confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	answer, ok := c.readLine()
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

func (c *cli) upload(ctx context.Context, path string) error {
	f, err := upload.OpenLocal(path)
	if err != nil {
		return err
	}
	if !upload.Accepts(f.Name(), f.ContentType()) {
		fmt.Fprintf(c.errOut, "warning: %s (%s) does not match %s\n", f.Name(), f.ContentType(), upload.AcceptFilter)
	}

	up := upload.New(c.api, upload.Options{
		OnUploaded: func(imageURL string) {
			fmt.Fprintln(c.out, imageURL)
		},
		Input: upload.InputFunc(func() {
			c.log.Debug("File selection cleared", zap.String("file", f.Name()))
		}),
		Notifier: c.notifier(),
		Log:      c.log,
	})

	_, err = up.Upload(ctx, f)
	return err
}

func (c *cli) list(ctx context.Context, page int) error {
	g := c.newGallery(page)
	if _, err := g.Load(ctx); err != nil {
		return err
	}
	c.printPage(g)
	return nil
}

func (c *cli) delete(ctx context.Context, imageID string, page int, yes bool) error {
	g := c.newGallery(page)
	g.RequestDelete(imageID)

	if !yes && !c.confirm(fmt.Sprintf("Delete image %s?", imageID)) {
		g.CancelDelete()
		fmt.Fprintln(c.out, "cancelled")
		return nil
	}
	return g.ConfirmDelete(ctx)
}

const viewHelp = `commands: n next page, p previous page, o <n> open image n,
          left, right, esc, del (in viewer), d <n> delete image n, q quit`

func (c *cli) view(ctx context.Context, page int) error {
	g := c.newGallery(page)
	kb := gallery.NewKeyboard()
	lb := gallery.NewLightbox(g, kb, c.cfg.Locale)
	defer lb.Close()

	if _, err := g.Load(ctx); err != nil {
		return err
	}
	c.printPage(g)
	fmt.Fprintln(c.out, viewHelp)

	for {
		fmt.Fprint(c.out, "> ")
		line, ok := c.readLine()
		if !ok || line == "q" || line == "quit" {
			return nil
		}
		cmd, arg, _ := strings.Cut(line, " ")

		var err error
		switch cmd {
		case "n", "next":
			lb.Close()
			_, err = g.Next(ctx)
		case "p", "prev", "previous":
			lb.Close()
			_, err = g.Previous(ctx)
		case "o", "open":
			err = c.openImage(lb, arg)
		case "left":
			kb.Dispatch(gallery.KeyLeft)
		case "right":
			kb.Dispatch(gallery.KeyRight)
		case "esc":
			kb.Dispatch(gallery.KeyEscape)
		case "del":
			kb.Dispatch(gallery.KeyDelete)
		case "d", "delete":
			err = c.requestDelete(g, arg)
		case "h", "help":
			fmt.Fprintln(c.out, viewHelp)
			continue
		default:
			fmt.Fprintf(c.out, "unknown command %q\n", cmd)
			continue
		}
		if err != nil {
			fmt.Fprintln(c.errOut, "error:", err)
		}

		if id := g.PendingDelete(); id != "" {
			if c.confirm(fmt.Sprintf("Delete image %s?", id)) {
				if err := g.ConfirmDelete(ctx); err != nil {
					fmt.Fprintln(c.errOut, "error:", err)
				}
			} else {
				g.CancelDelete()
			}
		}

		if lb.IsOpen() {
			c.printViewer(g, lb)
		} else {
			c.printPage(g)
		}
	}
}

func (c *cli) openImage(lb *gallery.Lightbox, arg string) error {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return fmt.Errorf("open needs an image number")
	}
	return lb.Open(n - 1)
}

func (c *cli) requestDelete(g *gallery.Gallery, arg string) error {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	images := g.Images()
	if err != nil || n < 1 || n > len(images) {
		return fmt.Errorf("delete needs an image number between 1 and %d", len(images))
	}
	g.RequestDelete(images[n-1].ID)
	return nil
}

func (c *cli) printPage(g *gallery.Gallery) {
	images := g.Images()
	if len(images) == 0 {
		fmt.Fprintln(c.out, "no images on this page")
	}
	for i, img := range images {
		fmt.Fprintf(c.out, "%3d. %s\n", i+1, describe(img))
	}

	p, ok := g.Pagination()
	if !ok {
		return
	}
	prev, next := "p previous", "n next"
	if !g.CanPrevious() {
		prev = "-"
	}
	if !g.CanNext() {
		next = "-"
	}
	fmt.Fprintf(c.out, "page %d of %d, %d images  [%s] [%s]\n", g.Page(), p.TotalPages, p.Total, prev, next)
}

func (c *cli) printViewer(g *gallery.Gallery, lb *gallery.Lightbox) {
	img, ok := lb.Current()
	if !ok {
		return
	}
	fmt.Fprintf(c.out, "[%d/%d] %s\n", lb.Index()+1, len(g.Images()), describe(img))
	if img.AltText != nil && *img.AltText != "" {
		fmt.Fprintf(c.out, "      %s\n", *img.AltText)
	}
}

func describe(img domain.ImageRecord) string {
	parts := []string{img.ID}
	if img.Order != nil {
		parts = append(parts, "order "+img.Order.OrderNumber)
	}
	if name := img.CustomerName(); name != "" {
		parts = append(parts, name)
	}
	if !img.CreatedAt.IsZero() {
		parts = append(parts, img.CreatedAt.Format("2006-01-02 15:04"))
	}
	parts = append(parts, img.URL)
	return strings.Join(parts, "  ")
}
