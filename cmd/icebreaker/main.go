package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/XiaoConstantine/dspy-go/pkg/core"
	"github.com/XiaoConstantine/dspy-go/pkg/llms"
	"github.com/XiaoConstantine/dspy-go/pkg/logging"
	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"

	"github.com/jdelaunay/icebreaker/internal/config"
	"github.com/jdelaunay/icebreaker/internal/crew"
	"github.com/jdelaunay/icebreaker/internal/health"
	"github.com/jdelaunay/icebreaker/internal/report"
)

func main() {
	// A .env in the working directory is a convenience, not a requirement
	_ = godotenv.Load()

	providerFlag := flag.String("provider", "", "Provider name (openai, ollama)")
	modelFlag := flag.String("model", "", "Model name")
	reportsFlag := flag.String("reports", "", "Directory for generated reports")
	debugFlag := flag.Bool("debug", false, "Verbose logging")
	doctorFlag := flag.Bool("doctor", false, "Check provider and tool dependencies, then exit")
	helpFlag := flag.Bool("help", false, "Show help")
	flag.BoolVar(helpFlag, "h", false, "Show help")

	flag.Usage = showHelp
	flag.Parse()

	if *helpFlag {
		showHelp()
		os.Exit(0)
	}

	args := flag.Args()
	if !*doctorFlag && len(args) != 1 {
		showHelp()
		os.Exit(1)
	}

	severity := logging.INFO
	if *debugFlag {
		severity = logging.DEBUG
	}
	logging.SetLogger(logging.NewLogger(logging.Config{
		Severity: severity,
		Outputs:  []logging.Output{logging.NewConsoleOutput(true, logging.WithColor(true))},
	}))

	cfg, err := config.Load()
	if err != nil {
		fatal("loading configuration: %v", err)
	}
	if *providerFlag != "" {
		cfg.Provider = *providerFlag
	}
	if *modelFlag != "" {
		cfg.Model = *modelFlag
	}
	if *reportsFlag != "" {
		cfg.Reports.Dir = *reportsFlag
	}
	if err := cfg.Validate(); err != nil {
		fatal("invalid configuration: %v", err)
	}

	if *doctorFlag {
		runDoctor(cfg)
		return
	}
	profileURL := args[0]

	if err := configureLLM(cfg); err != nil {
		fatal("configuring model: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := logging.GetLogger()
	logger.Info(ctx, "Preparing icebreakers for %s", profileURL)

	c, err := crew.New(cfg)
	if err != nil {
		fatal("assembling crew: %v", err)
	}

	out, err := c.Kickoff(ctx, profileURL)
	if err != nil {
		fatal("%v", err)
	}

	printReport(out)

	path, err := report.NewWriter(cfg.Reports.Dir).Save(out, profileURL)
	if err != nil {
		fatal("saving report: %v", err)
	}
	if path != "" {
		fmt.Printf("\nReport saved to %s\n", path)
	}
}

func runDoctor(cfg *config.Config) {
	failed := false
	for _, s := range health.CheckAll(context.Background(), cfg) {
		mark := "ok"
		if !s.OK {
			mark = "FAIL"
			failed = true
		}
		fmt.Printf("%-10s %-4s %s", s.Name, mark, s.Detail)
		if s.Error != "" {
			fmt.Printf(" (%s)", s.Error)
		}
		fmt.Println()
	}
	if failed {
		os.Exit(1)
	}
}

func configureLLM(cfg *config.Config) error {
	switch cfg.Provider {
	case "ollama":
		llm, err := llms.NewOllamaLLM(core.ModelID(cfg.Model), llms.WithBaseURL(cfg.BaseURL))
		if err != nil {
			return err
		}
		core.SetDefaultLLM(llm)
	default:
		if cfg.APIKey == "" {
			return fmt.Errorf("no API key configured; set OPENAI_API_KEY or api_key in %s", config.Dir())
		}
		llm, err := llms.NewOpenAI(core.ModelID(cfg.Model), cfg.APIKey)
		if err != nil {
			return err
		}
		core.SetDefaultLLM(llm)
	}
	return nil
}

// printReport renders the markdown for the terminal; when stdout is a pipe
// the raw markdown goes through untouched.
func printReport(md string) {
	if info, err := os.Stdout.Stat(); err != nil || info.Mode()&os.ModeCharDevice == 0 {
		fmt.Println(md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Println(md)
		return
	}
	rendered, err := r.Render(md)
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(rendered)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func showHelp() {
	fmt.Fprint(os.Stderr, `icebreaker - research a LinkedIn profile and prepare conversation starters

USAGE:
  icebreaker [flags] <linkedin-profile-url>

FLAGS:
  -provider string   Provider name (openai, ollama)
  -model string      Model name (default gpt-4o)
  -reports string    Directory for generated reports
  -debug             Verbose logging
  -doctor            Check provider and tool dependencies, then exit
  -h, -help          Show help

ENVIRONMENT:
  OPENAI_API_KEY       API key for the openai provider
  FIRECRAWL_API_KEY    API key for the web_search tool
  ICEBREAKER_*         Override any configuration value

CONFIGURATION:
  `+config.Dir()+`/config.yaml
`)
}
