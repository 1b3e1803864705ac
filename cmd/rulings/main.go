// ABOUTME: CLI entrypoint for the rulings editor with card, group, and check modes.
// ABOUTME: Wires together the API client, proposal cart, and the Bubble Tea interface.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vtes-biased/rulings-website/api"
	"github.com/vtes-biased/rulings-website/editor"
	"github.com/vtes-biased/rulings-website/rulings"
	"github.com/vtes-biased/rulings-website/tui"
)

var version = "dev"

const startupTimeout = 30 * time.Second

// config holds all CLI configuration parsed from flags and positional arguments.
type config struct {
	apiURL      string
	configFile  string
	proposal    string
	name        string
	description string
	groupMode   bool
	checkMode   bool
	showVersion bool
	target      string
}

func main() {
	loadDotEnv(".env")

	cfg := parseFlags()

	if cfg.showVersion {
		fmt.Printf("rulings %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags and returns a populated config.
func parseFlags() config {
	var cfg config

	fs := flag.NewFlagSet("rulings", flag.ContinueOnError)
	fs.StringVar(&cfg.apiURL, "api", "", "API base URL (default: http://127.0.0.1:5000)")
	fs.StringVar(&cfg.configFile, "config", "rulings.yaml", "Settings file")
	fs.StringVar(&cfg.proposal, "proposal", "", "Resume an existing proposal")
	fs.StringVar(&cfg.name, "name", "", "Name for a new proposal")
	fs.StringVar(&cfg.description, "description", "", "Description for a new proposal")
	fs.BoolVar(&cfg.groupMode, "group", false, "Edit a card group")
	fs.BoolVar(&cfg.checkMode, "check", false, "Check references and consistency")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if fs.NArg() > 0 {
		cfg.target = fs.Arg(0)
	}

	return cfg
}

// run dispatches to the appropriate mode based on the config.
// Returns an exit code: 0 for success, 1 for failure.
func run(cfg config) int {
	fc, err := loadFileConfig(cfg.configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	client := api.NewClient(resolveAPIURL(cfg.apiURL, fc))

	if cfg.checkMode {
		return runCheck(client)
	}

	if cfg.target == "" {
		printHelp(os.Stderr, version)
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	cart, err := openProposal(ctx, client, cfg, fc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	var app tui.AppModel
	if cfg.groupMode {
		page, err := client.GetGroup(ctx, cfg.target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		app = tui.NewGroupApp(client, cart, page)
	} else {
		page, err := resolveCard(ctx, client, cfg.target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		app = tui.NewCardApp(client, cart, page)
	}

	// Session callbacks fire only once the program runs, so wiring through
	// the deferred pointer before NewProgram copies the model is safe.
	var p *tea.Program
	app.Wire(func(msg tea.Msg) { p.Send(msg) })
	p = tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

// openProposal resumes the proposal named on the command line or the config
// file, or starts a fresh one.
func openProposal(ctx context.Context, client *api.Client, cfg config, fc fileConfig) (*editor.Cart, error) {
	uid := cfg.proposal
	if uid == "" {
		uid = fc.Proposal
	}
	if uid != "" {
		p, err := client.GetProposal(ctx, uid)
		if err != nil {
			return nil, fmt.Errorf("resume proposal %s: %w", uid, err)
		}
		return editor.NewCart(*p), nil
	}

	name, description := cfg.name, cfg.description
	if name == "" {
		name = fc.Name
	}
	if description == "" {
		description = fc.Description
	}
	started, err := client.StartProposal(ctx, name, description)
	if err != nil {
		return nil, fmt.Errorf("start proposal: %w", err)
	}
	return editor.NewCart(rulings.Proposal{UID: started, Name: name, Description: description}), nil
}

// resolveCard fetches a card page by uid, falling back to a name completion
// lookup when the argument is not a known uid.
func resolveCard(ctx context.Context, client *api.Client, target string) (*api.CardPage, error) {
	page, err := client.GetCard(ctx, target)
	if err == nil {
		return page, nil
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		return nil, err
	}

	items, cerr := client.Complete(ctx, target)
	if cerr != nil || len(items) == 0 {
		return nil, fmt.Errorf("no card matches %q", target)
	}
	return client.GetCard(ctx, items[0].Value)
}

// runCheck runs the server-side reference and consistency checks and prints
// every finding, one per line.
func runCheck(client *api.Client) int {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	findings, err := client.CheckReferences(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	issues, err := client.CheckConsistency(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	for _, f := range findings {
		fmt.Println(f)
	}
	for _, issue := range issues {
		fmt.Printf("%s (%s): %s\n", issue.Target.Name, issue.RulingUID, issue.Error)
	}

	if len(findings) > 0 || len(issues) > 0 {
		fmt.Fprintf(os.Stderr, "%d findings.\n", len(findings)+len(issues))
		return 1
	}

	fmt.Println("All references and rulings are consistent.")
	return 0
}
