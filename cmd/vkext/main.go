// Command vkext reads the Vulkan registry (vk.xml) and an extension manifest
// and generates the extension tracking code a Vulkan driver layer needs.
//
// Usage:
//
//	vkext <command> [flags] <args>
//
// Commands:
//
//	gen      Render manifest extensions through a template
//	check    Validate a manifest against the schema and the registry
//	list     List registry extensions
//	show     Show registry entries
//	export   Export the registry as JSON, YAML or CBOR
//	schema   Print the manifest JSON schema
//	shell    Browse the registry interactively
//
// Examples:
//
//	# Generate the C header for zink
//	vkext gen -registry vk.xml -manifest zink.yaml -template c-header -o zink_extensions.h
//
//	# Use a custom template
//	vkext gen -registry vk.xml -manifest zink.yaml -t stubs.c.tmpl -template stubs.c.tmpl
//
//	# Fail when the manifest disagrees with the registry
//	vkext check vk.xml zink.yaml
//
//	# Device extensions promoted to core
//	vkext list -type device -promoted vk.xml
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/nguyenanhgiau/external-mesa3d/cmd/vkext/commands"
	"github.com/nguyenanhgiau/external-mesa3d/pkg/codegen"
)

const usage = `vkext - Vulkan extension table generator

Usage:
  vkext <command> [flags] <args>

Commands:
  gen      Render manifest extensions through a template
  check    Validate a manifest against the schema and the registry
  list     List registry extensions
  show     Show registry entries
  export   Export the registry as JSON, YAML or CBOR
  schema   Print the manifest JSON schema
  shell    Browse the registry interactively

Use "vkext <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "gen":
		runGen(args)
	case "check":
		runCheck(args)
	case "list":
		runList(args)
	case "show":
		runShow(args)
	case "export":
		runExport(args)
	case "schema":
		runSchema(args)
	case "shell":
		runShell(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func newEnv(verbose bool) commands.Env {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return commands.Env{Out: os.Stdout, Logger: logger}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runGen(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `vkext gen - Render manifest extensions through a template

Usage:
  vkext gen [flags]

Built-in templates: %s

Flags:
`, strings.Join(codegen.Builtins, ", "))
		fs.PrintDefaults()
	}

	var templateFiles stringList
	registryPath := fs.String("registry", "", "Path to vk.xml (required)")
	manifestPath := fs.String("manifest", "", "Path to the extension manifest (required)")
	template := fs.String("template", codegen.TemplateCHeader, "Template to render")
	fs.Var(&templateFiles, "t", "Additional template file (repeatable)")
	prefix := fs.String("prefix", "zink", "Identifier prefix for C output")
	pkg := fs.String("package", "vkext", "Package name for Go output")
	strict := fs.Bool("strict", false, "Fail on registry cross-reference problems")
	output := fs.String("o", "", "Output file (default: stdout)")
	verbose := fs.Bool("v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	env := newEnv(*verbose)
	opts := commands.GenOptions{
		RegistryPath:  *registryPath,
		ManifestPath:  *manifestPath,
		Template:      *template,
		TemplateFiles: templateFiles,
		Prefix:        *prefix,
		Package:       *pkg,
		Strict:        *strict,
	}

	if *output == "" {
		if err := commands.RunGen(env, opts); err != nil {
			fail(err)
		}
		return
	}

	var buf bytes.Buffer
	env.Out = &buf
	if err := commands.RunGen(env, opts); err != nil {
		fail(err)
	}
	if err := os.WriteFile(*output, buf.Bytes(), 0o644); err != nil {
		fail(fmt.Errorf("writing %s: %w", *output, err))
	}
	env.Logger.Info("generated", slog.String("file", *output), slog.String("template", *template))
}

func runCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `vkext check - Validate a manifest against the schema and the registry

Usage:
  vkext check [flags] <vk.xml> <manifest.yaml>

Flags:
`)
		fs.PrintDefaults()
	}
	verbose := fs.Bool("v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Error: registry and manifest paths required")
		fs.Usage()
		os.Exit(1)
	}

	err := commands.RunCheck(newEnv(*verbose), fs.Arg(0), fs.Arg(1))
	if errors.Is(err, commands.ErrCheckFailed) {
		os.Exit(1)
	}
	if err != nil {
		fail(err)
	}
}

func runList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `vkext list - List registry extensions

Usage:
  vkext list [flags] <vk.xml>

Flags:
`)
		fs.PrintDefaults()
	}

	match := fs.String("match", "", "Glob over extension names, e.g. VK_KHR_*")
	typ := fs.String("type", "", "Filter by type (instance, device)")
	promoted := fs.Bool("promoted", false, "Only extensions promoted to core")
	verbose := fs.Bool("v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: registry path required")
		fs.Usage()
		os.Exit(1)
	}

	filter := commands.ListFilter{Match: *match, Type: *typ, Promoted: *promoted}
	if err := commands.RunList(newEnv(*verbose), fs.Arg(0), filter); err != nil {
		fail(err)
	}
}

func runShow(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `vkext show - Show registry entries

Usage:
  vkext show [flags] <vk.xml> <name>...

Flags:
`)
		fs.PrintDefaults()
	}
	verbose := fs.Bool("v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Error: registry path and at least one name required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunShow(newEnv(*verbose), fs.Arg(0), fs.Args()[1:]); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `vkext export - Export the registry as JSON, YAML or CBOR

Usage:
  vkext export [flags] <vk.xml>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "json", "Output format (json, yaml, cbor)")
	output := fs.String("o", "", "Output file (default: stdout)")
	verbose := fs.Bool("v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: registry path required")
		fs.Usage()
		os.Exit(1)
	}

	env := newEnv(*verbose)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fail(fmt.Errorf("creating output file: %w", err))
		}
		defer f.Close()
		env.Out = f
	}

	if err := commands.RunExport(env, fs.Arg(0), *format); err != nil {
		fail(err)
	}
}

func runSchema(args []string) {
	fs := flag.NewFlagSet("schema", flag.ExitOnError)
	output := fs.String("o", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	env := newEnv(false)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fail(fmt.Errorf("creating output file: %w", err))
		}
		defer f.Close()
		env.Out = f
	}
	if err := commands.RunSchema(env); err != nil {
		fail(err)
	}
}

func runShell(args []string) {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `vkext shell - Browse the registry interactively

Usage:
  vkext shell [flags] <vk.xml>

Flags:
`)
		fs.PrintDefaults()
	}
	verbose := fs.Bool("v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: registry path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunShell(newEnv(*verbose), fs.Arg(0)); err != nil {
		fail(err)
	}
}
