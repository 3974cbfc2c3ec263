package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/germanamz/modelgate/pkg/chat"
	"github.com/germanamz/modelgate/pkg/gatedir"
	"github.com/germanamz/modelgate/pkg/mcpserver"
	"github.com/germanamz/modelgate/pkg/providers/model"
	"github.com/germanamz/modelgate/pkg/providers/settings"
)

func runProviders(_ context.Context, args []string) error {
	fs, g := newFlagSet("providers", "List the model providers and their resolved base URLs.")
	_ = fs.Parse(args)

	a, err := newApp(g, os.Stderr)
	if err != nil {
		return err
	}

	src, err := a.sources()
	if err != nil {
		return err
	}

	var rows [][]string
	for _, id := range a.reg.Identities() {
		conn := settings.Resolve(id.Name, src, settings.Keys{BaseURL: id.BaseURLKey})
		rows = append(rows, []string{id.Name, id.BaseURLKey, orDash(conn.BaseURL), id.APIKeyLink})
	}

	printTable([]string{"NAME", "BASE URL KEY", "BASE URL", "LINK"}, rows)

	return nil
}

func runModels(ctx context.Context, args []string) error {
	fs, g := newFlagSet("models", "Discover the models offered by the providers.")
	providerName := fs.String("provider", "", "only discover the models of this provider")
	asJSON := fs.Bool("json", false, "print the models as JSON")
	showDiff := fs.Bool("diff", false, "print the changes since the last snapshot and store the new one")
	_ = fs.Parse(args)

	a, err := newApp(g, os.Stderr)
	if err != nil {
		return err
	}

	snap, err := a.discover(ctx, *providerName)
	if err != nil {
		return err
	}

	if *showDiff {
		return a.diffAndSave(snap)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	var rows [][]string
	for _, name := range sortedProviders(snap) {
		for _, m := range snap[name] {
			rows = append(rows, []string{name, m.Name, m.Label, strconv.Itoa(m.MaxTokens)})
		}
	}

	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, dimStyle.Render("no models discovered"))
		return nil
	}

	printTable([]string{"PROVIDER", "NAME", "LABEL", "MAX TOKENS"}, rows)

	return nil
}

// discover runs discovery for one provider, or all when providerName is
// empty, bounded by the discovery timeout.
func (a *app) discover(ctx context.Context, providerName string) (gatedir.Snapshot, error) {
	if providerName != "" {
		if _, ok := a.reg.Get(providerName); !ok {
			return nil, fmt.Errorf("unknown provider %q (known: %s)", providerName, strings.Join(a.reg.Names(), ", "))
		}
	}

	src, err := a.sources()
	if err != nil {
		return nil, err
	}

	dctx, cancel := a.discoveryContext(ctx)
	defer cancel()

	label := "Discovering models..."
	if providerName != "" {
		label = fmt.Sprintf("Discovering %s models...", providerName)
	}

	return withSpinner(ctx, cancel, label, func() gatedir.Snapshot {
		if providerName == "" {
			return a.reg.DiscoverAll(dctx, src)
		}
		models, err := a.reg.Discover(dctx, providerName, src)
		if err != nil {
			a.log.Error("discovery failed", "provider", providerName, "error", err)
			return gatedir.Snapshot{}
		}
		return gatedir.Snapshot{providerName: models}
	})
}

func (a *app) diffAndSave(cur gatedir.Snapshot) error {
	prev, err := gatedir.LoadSnapshot(a.dir)
	if err != nil {
		return err
	}

	next := mergeSnapshot(prev, cur)

	if diff := snapshotDiff(prev, next); diff == "" {
		fmt.Println(dimStyle.Render("no changes since last snapshot"))
	} else {
		fmt.Println(colorizeDiff(diff))
	}

	if err := gatedir.EnsureStructure(a.dir); err != nil {
		return err
	}

	return gatedir.SaveSnapshot(a.dir, next)
}

func runAsk(ctx context.Context, args []string) error {
	fs, g := newFlagSet("ask", "Send one prompt to a model and print the reply.\n\nUsage: modelgate ask -provider NAME [-model NAME] [-system TEXT] PROMPT")
	providerName := fs.String("provider", "", "provider to use (required)")
	modelName := fs.String("model", "", "model to use (default: choose interactively)")
	system := fs.String("system", "", "system prompt sent before the user prompt")
	raw := fs.Bool("raw", false, "print the reply without markdown rendering")
	_ = fs.Parse(args)

	if *providerName == "" {
		return errors.New("ask: -provider is required")
	}

	prompt := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if prompt == "" {
		return errors.New("ask: a prompt is required")
	}

	a, err := newApp(g, os.Stderr)
	if err != nil {
		return err
	}

	name := *modelName
	if name == "" {
		snap, err := a.discover(ctx, *providerName)
		if err != nil {
			return err
		}
		models := snap[*providerName]
		a.log.Debug("models discovered", "provider", *providerName, "names", model.Names(models))

		if name, err = pickModel(*providerName, models); err != nil {
			return fmt.Errorf("ask: %s: %w", *providerName, err)
		}
		if d, ok := model.Find(models, name); ok {
			fmt.Fprintln(os.Stderr, dimStyle.Render("using "+d.Label))
		}
	}

	src, err := a.sources()
	if err != nil {
		return err
	}

	handle, err := a.reg.CreateHandle(*providerName, name, src)
	if err != nil {
		return err
	}

	msgs := buildMessages(*system, prompt)

	a.log.Debug("sending prompt",
		"provider", *providerName,
		"model", handle.Model(),
		"endpoint", handle.Endpoint(),
		"system_prompt", chat.SystemPrompt(msgs),
		"transcript", chat.Transcript(msgs),
	)

	reply, err := handle.Complete(ctx, msgs)
	if err != nil {
		return err
	}

	if *raw || !isTerminal(os.Stdout) {
		fmt.Println(reply.Content)
		return nil
	}

	fmt.Println(answerPrefixStyle.Render(handle.Model() + " >"))
	fmt.Println(renderMarkdown(reply.Content, 0))

	return nil
}

func runMCP(ctx context.Context, args []string) error {
	fs, g := newFlagSet("mcp", "Serve provider discovery over MCP on stdio.")
	_ = fs.Parse(args)

	a, err := newApp(g, os.Stderr)
	if err != nil {
		return err
	}

	srv := mcpserver.New("modelgate", version, a.reg, func() settings.Sources {
		src, err := a.sources()
		if err != nil {
			a.log.Error("read server environment", "error", err)
			return a.cfg.Sources(nil)
		}
		return src
	})

	err = srv.Serve(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// buildMessages returns the prompt as a user message, preceded by a system
// message when system is not blank.
func buildMessages(system, prompt string) []chat.Message {
	msgs := make([]chat.Message, 0, 2)
	if strings.TrimSpace(system) != "" {
		msgs = append(msgs, chat.NewText(chat.System, system))
	}
	return append(msgs, chat.NewText(chat.User, prompt))
}

func printTable(headers []string, rows [][]string) {
	lines := renderTable(headers, rows)
	fmt.Println(headerStyle.Render(lines[0]))
	for _, line := range lines[1:] {
		fmt.Println(line)
	}
}

func sortedProviders(s gatedir.Snapshot) []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
