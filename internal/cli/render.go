package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"wdlist/internal/config"
	"wdlist/internal/list"
	"wdlist/internal/listspec"
	"wdlist/internal/mwapi"
	"wdlist/internal/render"
	"wdlist/internal/sparql"
	"wdlist/internal/store"
	"wdlist/internal/wikibase"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	Wiki       string
	Params     []string
	SparqlFile string
	Renderer   string // "" selects by wiki
	OutFile    string
}

// NewRenderCommand creates the render command.
func NewRenderCommand(root *RootOptions) *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a list to page text",
		Long: `Render executes the full run: parse the list parameters, run (or
read) the SPARQL query, build and patch the rows, and render the
result as wikitext or tabular data.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Wiki, "wiki", "", "target wiki id, e.g. enwiki (defaults to the config default_api)")
	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "list parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.SparqlFile, "sparql-file", "", "read SPARQL JSON results from a file instead of querying")
	cmd.Flags().StringVar(&opts.Renderer, "renderer", "", "output renderer (wikitext|tabbed); default follows the wiki")
	cmd.Flags().StringVarP(&opts.OutFile, "out", "o", "", "write output to a file instead of stdout")

	return cmd
}

func runRender(cmd *cobra.Command, root *RootOptions, opts *RenderOptions) error {
	cfg, err := config.Load(root.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading config", err)
	}

	wiki := opts.Wiki
	if wiki == "" {
		wiki = cfg.DefaultAPI
	}

	values, err := parseParamFlags(opts.Params)
	if err != nil {
		return WrapExitError(ExitCommandError, "parsing parameters", err)
	}
	params := listspec.ParamsFromValues(values)

	client := mwapi.New(cfg.APIFor(wiki).URL, cfg.SparqlEndpoint)

	raw, err := loadSparqlResults(cmd, client, opts, params)
	if err != nil {
		return err
	}
	results, err := sparql.Parse(raw)
	if err != nil {
		return WrapExitError(ExitFailure, "parsing query results", err)
	}

	var fetcher wikibase.Fetcher = mwapi.NewEntityFetcher(client)
	if cfg.CachePath != "" {
		db, err := store.Open(cfg.CachePath)
		if err != nil {
			return WrapExitError(ExitCommandError, "opening entity cache", err)
		}
		defer db.Close()
		fetcher = store.NewCachingFetcher(db, fetcher)
	}

	l := list.New(list.Options{
		Wiki:             wiki,
		Language:         cfg.Language,
		Params:           params,
		Store:            wikibase.NewStore(fetcher),
		Site:             client,
		ShadowCheckWikis: cfg.ShadowCheckWikis,
	})
	if err := l.Run(cmd.Context(), results); err != nil {
		return WrapExitError(ExitFailure, "running list", err)
	}

	renderer, err := selectRenderer(opts.Renderer, wiki)
	if err != nil {
		return WrapExitError(ExitCommandError, "selecting renderer", err)
	}
	out, err := renderer.Render(l)
	if err != nil {
		return WrapExitError(ExitFailure, "rendering", err)
	}

	if opts.OutFile != "" {
		if err := os.WriteFile(opts.OutFile, []byte(out), 0o644); err != nil {
			return WrapExitError(ExitCommandError, "writing output", err)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func loadSparqlResults(cmd *cobra.Command, client *mwapi.Client, opts *RenderOptions, params listspec.Params) ([]byte, error) {
	if opts.SparqlFile != "" {
		raw, err := os.ReadFile(opts.SparqlFile)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "reading sparql file", err)
		}
		return raw, nil
	}
	if params.Sparql == "" {
		return nil, NewExitError(ExitCommandError, "no sparql parameter and no --sparql-file")
	}
	raw, err := client.RunSparql(cmd.Context(), params.Sparql)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "running sparql query", err)
	}
	return raw, nil
}

func selectRenderer(name, wiki string) (render.Renderer, error) {
	switch name {
	case "":
		return render.ForWiki(wiki), nil
	case "wikitext":
		return render.Wikitext{}, nil
	case "tabbed":
		return render.TabbedData{}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", name)
	}
}

func parseParamFlags(flags []string) (map[string]string, error) {
	values := make(map[string]string, len(flags))
	for _, f := range flags {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q: want key=value", f)
		}
		values[strings.TrimSpace(key)] = value
	}
	return values, nil
}
