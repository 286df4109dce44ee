package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/edvin/governance/internal/govclient"
	"github.com/edvin/governance/internal/model"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type command struct {
	name  string
	args  string
	usage string
	nargs int
	run   func(ctx context.Context, c *govclient.Client, args []string, out *output) error
}

var commands = []command{
	{"instances", "", "List proxy instances", 0, listInstances},
	{"instance-enable", "<instance-id>", "Enable a proxy instance", 1, setInstance(true)},
	{"instance-disable", "<instance-id>", "Disable a proxy instance", 1, setInstance(false)},
	{"replicas", "", "List replica data sources", 0, listReplicas},
	{"replica-enable", "<schema> <data-source>", "Enable a replica data source", 2, setReplica(true)},
	{"replica-disable", "<schema> <data-source>", "Disable a replica data source", 2, setReplica(false)},
	{"schemas", "", "List schemas and their rule dialect", 0, listSchemas},
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		printUsage(stderr)
		return 1
	}

	fs := pflag.NewFlagSet(cmd.name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api-url", envOr("GOVERNANCE_API_URL", "http://localhost:8088"), "Governance API base URL")
	apiKey := fs.String("api-key", os.Getenv("GOVERNANCE_API_KEY"), "Governance API key")
	timeout := fs.Duration("timeout", 30*time.Second, "Request timeout")
	jsonOut := fs.Bool("json", false, "Print raw JSON instead of a table")
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if fs.NArg() != cmd.nargs {
		fmt.Fprintf(stderr, "Usage: govctl %s %s\n", cmd.name, cmd.args)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := govclient.NewClient(*apiURL, *apiKey)
	out := &output{w: stdout, json: *jsonOut}
	if err := cmd.run(ctx, client, fs.Args(), out); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func listInstances(ctx context.Context, c *govclient.Client, _ []string, out *output) error {
	instances, err := c.ListInstances(ctx)
	if err != nil {
		return err
	}
	return out.table(instances, "INSTANCE\tSTATUS", func(tw io.Writer) {
		for _, i := range instances {
			fmt.Fprintf(tw, "%s\t%s\n", i.InstanceID, model.StatusLabel(i.Enabled))
		}
	})
}

func setInstance(enabled bool) func(context.Context, *govclient.Client, []string, *output) error {
	return func(ctx context.Context, c *govclient.Client, args []string, out *output) error {
		if err := c.SetInstanceEnabled(ctx, args[0], enabled); err != nil {
			return err
		}
		fmt.Fprintf(out.w, "instance %s %s\n", args[0], model.StatusLabel(enabled))
		return nil
	}
}

func listReplicas(ctx context.Context, c *govclient.Client, _ []string, out *output) error {
	replicas, err := c.ListReplicaDataSources(ctx)
	if err != nil {
		return err
	}
	return out.table(replicas, "SCHEMA\tPRIMARY\tREPLICA\tSTATUS", func(tw io.Writer) {
		for _, r := range replicas {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.SchemaName, r.PrimaryDataSourceName,
				r.ReplicaDataSourceName, model.StatusLabel(r.Enabled))
		}
	})
}

func setReplica(enabled bool) func(context.Context, *govclient.Client, []string, *output) error {
	return func(ctx context.Context, c *govclient.Client, args []string, out *output) error {
		if err := c.SetReplicaDataSourceEnabled(ctx, args[0], args[1], enabled); err != nil {
			return err
		}
		fmt.Fprintf(out.w, "data source %s.%s %s\n", args[0], args[1], model.StatusLabel(enabled))
		return nil
	}
}

func listSchemas(ctx context.Context, c *govclient.Client, _ []string, out *output) error {
	schemas, err := c.ListSchemas(ctx)
	if err != nil {
		return err
	}
	return out.table(schemas, "SCHEMA\tDIALECT\tRULE", func(tw io.Writer) {
		for _, s := range schemas {
			fmt.Fprintf(tw, "%s\t%s\t%t\n", s.Name, s.Dialect, s.HasRule)
		}
	})
}

type output struct {
	w    io.Writer
	json bool
}

func (o *output) table(v any, header string, rows func(io.Writer)) error {
	if o.json {
		enc := json.NewEncoder(o.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: govctl <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range commands {
		fmt.Fprintf(tw, "  %s %s\t%s\n", c.name, c.args, c.usage)
	}
	tw.Flush()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  --api-url   Governance API base URL (env GOVERNANCE_API_URL)")
	fmt.Fprintln(w, "  --api-key   Governance API key (env GOVERNANCE_API_KEY)")
	fmt.Fprintln(w, "  --json      Print raw JSON")
}
