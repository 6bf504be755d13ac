// Command sitegen generates a single website from a JSON business profile
// without running the API server. Useful for trying templates and prompts
// locally.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"sitegen/internal/domain"
	"sitegen/internal/infra"
	"sitegen/internal/pipeline"
	"sitegen/internal/providers/genai"
	"sitegen/internal/providers/image"
	"sitegen/internal/template"
	"sitegen/pkg/zip"
)

func main() {
	var (
		inputFlag    string
		templateFlag string
		outFlag      string
		zipFlag      bool
		timeoutFlag  time.Duration
	)
	flag.StringVar(&inputFlag, "input", "-", "path to a business profile JSON file, or - for stdin")
	flag.StringVar(&templateFlag, "template", "", "template id (overrides template_id in the profile)")
	flag.StringVar(&outFlag, "out", "", "output path (defaults to <session_id>.html in the working directory)")
	flag.BoolVar(&zipFlag, "zip", false, "write a zip archive instead of a bare html file")
	flag.DurationVar(&timeoutFlag, "timeout", 3*time.Minute, "overall generation timeout")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fatal(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	info, err := readProfile(inputFlag)
	if err != nil {
		fatal(err)
	}
	if templateFlag != "" {
		info.TemplateID = templateFlag
	}
	if err := info.Validate(); err != nil {
		fatal(err)
	}

	store, err := template.NewStore()
	if err != nil {
		fatal(err)
	}

	gen := pipeline.New(pipeline.Options{
		Model: genai.NewClient(genai.Options{
			APIKey:  cfg.GeminiAPIKey,
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiModel,
			Logger:  &logger,
		}),
		Images: image.NewUnsplashProvider(image.Options{
			AccessKey: cfg.UnsplashAccessKey,
			BaseURL:   cfg.UnsplashBaseURL,
			Logger:    &logger,
		}),
		Templates:       store,
		DefaultTemplate: cfg.DefaultTemplate,
		Logger:          &logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeoutFlag)
	defer cancel()

	site, err := gen.Generate(ctx, info)
	if err != nil {
		fatal(err)
	}

	out := outFlag
	if out == "" {
		out = site.Filename
		if zipFlag {
			out = site.SessionID + ".zip"
		}
	}

	if zipFlag {
		archive, err := zip.ArchiveAssets([]zip.Asset{
			{Filename: "index.html", Data: []byte(site.HTML)},
		})
		if err != nil {
			fatal(err)
		}
		err = os.WriteFile(out, archive, 0o644)
		if err != nil {
			fatal(err)
		}
	} else {
		if err := os.WriteFile(out, []byte(site.HTML), 0o644); err != nil {
			fatal(err)
		}
	}

	abs, _ := filepath.Abs(out)
	fmt.Printf("session:  %s\n", site.SessionID)
	fmt.Printf("written:  %s\n", abs)
}

func readProfile(path string) (domain.BusinessInfo, error) {
	var r io.Reader
	if strings.TrimSpace(path) == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return domain.BusinessInfo{}, err
		}
		defer f.Close()
		r = f
	}

	var info domain.BusinessInfo
	if err := json.NewDecoder(r).Decode(&info); err != nil {
		return domain.BusinessInfo{}, fmt.Errorf("decode business profile: %w", err)
	}
	return info, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
