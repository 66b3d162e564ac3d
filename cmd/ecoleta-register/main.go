// Command ecoleta-register registers a collection point through the API,
// filling the registration form the way the web client does.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/ecoleta/internal/client"
	"github.com/vbonduro/ecoleta/internal/form"
	"github.com/vbonduro/ecoleta/internal/geo"
	"github.com/vbonduro/ecoleta/internal/logging"
)

type options struct {
	apiURL   string
	geoURL   string
	name     string
	email    string
	whatsapp string
	uf       string
	city     string
	lat      float64
	lng      float64
	items    string
	image    string
	timeout  time.Duration
	logLevel string
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("ecoleta-register", flag.ContinueOnError)
	fs.StringVar(&opts.apiURL, "api", "http://localhost:3333", "API base URL")
	fs.StringVar(&opts.geoURL, "geo", geo.DefaultBaseURL, "IBGE localidades base URL")
	fs.StringVar(&opts.name, "name", "", "entity name")
	fs.StringVar(&opts.email, "email", "", "contact email")
	fs.StringVar(&opts.whatsapp, "whatsapp", "", "contact WhatsApp number")
	fs.StringVar(&opts.uf, "uf", "", "two-letter state code")
	fs.StringVar(&opts.city, "city", "", "city name as listed by IBGE")
	fs.Float64Var(&opts.lat, "lat", 0, "latitude of the point")
	fs.Float64Var(&opts.lng, "lng", 0, "longitude of the point")
	fs.StringVar(&opts.items, "items", "", "comma-separated item ids")
	fs.StringVar(&opts.image, "image", "", "path to the point photo")
	fs.DurationVar(&opts.timeout, "timeout", time.Minute, "overall timeout")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.image == "" {
		return nil, errors.New("-image is required")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("invalid arguments: %v", err)
	}

	logger, cleanup, err := logging.New(opts.logLevel, "", 0)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	f := form.New(client.New(opts.apiURL), geo.NewIBGEClient(opts.geoURL))
	if err := fill(ctx, f, opts, logger); err != nil {
		logger.Error("registration failed", "error", err)
		cleanup()
		os.Exit(1)
	}

	point, err := f.Submit(ctx)
	if err != nil {
		logger.Error("registration failed", "error", err)
		cleanup()
		os.Exit(1)
	}
	fmt.Printf("created point %d (%s)\n", point.ID, point.ImageURL)
}

// fill walks the form in the order a user would.
func fill(ctx context.Context, f *form.Form, opts *options, logger *slog.Logger) error {
	f.Locate(opts.lat, opts.lng)

	if err := f.LoadItems(ctx); err != nil {
		return err
	}
	logger.Debug("items loaded", "count", len(f.Items()))

	if err := f.LoadUFs(ctx); err != nil {
		return err
	}
	if err := f.SelectUF(ctx, opts.uf); err != nil {
		return err
	}
	logger.Debug("cities loaded", "uf", opts.uf, "count", len(f.Cities()))
	if err := f.SelectCity(opts.city); err != nil {
		return err
	}

	f.ClickMap(opts.lat, opts.lng)

	for name, value := range map[string]string{
		"name":     opts.name,
		"email":    opts.email,
		"whatsapp": opts.whatsapp,
	} {
		if err := f.SetField(name, value); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(opts.image)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	f.SetImage(filepath.Base(opts.image), data)

	ids, err := parseItems(opts.items)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := f.ToggleItem(id); err != nil {
			return err
		}
	}
	return nil
}

func parseItems(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid item id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
