package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/nguyenanhgiau/external-mesa3d/pkg/registry"
)

// Shell is an interactive registry browser.
type Shell struct {
	reg *registry.Registry
	out io.Writer
}

// NewShell returns a shell over reg writing to out.
func NewShell(reg *registry.Registry, out io.Writer) *Shell {
	return &Shell{reg: reg, out: out}
}

// RunShell loads the registry and reads commands until quit or EOF.
func RunShell(env Env, path string) error {
	reg, err := env.loadRegistry(path)
	if err != nil {
		return err
	}

	names := func(string) []string { return reg.Names() }
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "vkext> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("help"),
			readline.PcItem("list"),
			readline.PcItem("count"),
			readline.PcItem("show", readline.PcItemDynamic(names)),
			readline.PcItem("commands", readline.PcItemDynamic(names)),
			readline.PcItem("promoted", readline.PcItemDynamic(names)),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	sh := NewShell(reg, rl.Stdout())
	sh.printHelp()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}
		if !sh.Exec(line) {
			return nil
		}
	}
}

// Exec runs one command line. It returns false when the shell should exit.
func (s *Shell) Exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "list", "ls":
		s.cmdList(args)

	case "count":
		fmt.Fprintf(s.out, "%d extensions\n", s.reg.Len())

	case "show", "s":
		s.cmdShow(args)

	case "commands", "cmds":
		s.cmdCommands(args)

	case "promoted", "p":
		s.cmdPromoted(args)

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return false

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Registry Commands:
  list [glob] [instance|device] - List extension names
  count                         - Number of extensions
  show <name>...                - Show registry entries
  commands <name>               - List the functions an extension adds
  promoted <name>               - Show the core version an extension was promoted to
  quit                          - Exit`)
}

func (s *Shell) cmdList(args []string) {
	var filter ListFilter
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case registry.TypeInstance, registry.TypeDevice:
			filter.Type = arg
		default:
			filter.Match = arg
		}
	}
	names, err := listNames(s.reg, filter)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	for _, name := range names {
		fmt.Fprintln(s.out, name)
	}
}

func (s *Shell) cmdShow(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "Usage: show <name>...")
		return
	}
	for _, name := range args {
		e, ok := s.lookup(name)
		if !ok {
			continue
		}
		writeEntry(s.out, e)
	}
}

func (s *Shell) cmdCommands(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: commands <name>")
		return
	}
	e, ok := s.lookup(args[0])
	if !ok {
		return
	}
	if len(e.Commands) == 0 {
		fmt.Fprintln(s.out, "(none)")
		return
	}
	for _, c := range e.Commands {
		fmt.Fprintln(s.out, c)
	}
}

func (s *Shell) cmdPromoted(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: promoted <name>")
		return
	}
	e, ok := s.lookup(args[0])
	if !ok {
		return
	}
	if e.PromotedIn == nil {
		fmt.Fprintf(s.out, "%s is not promoted to core\n", e.Name)
		return
	}
	fmt.Fprintf(s.out, "%s is core since Vulkan %s\n", e.Name, e.PromotedIn)
}

func (s *Shell) lookup(name string) (*registry.Entry, bool) {
	e, ok := s.reg.Entry(name)
	if !ok {
		fmt.Fprintf(s.out, "Not in registry: %s\n", name)
	}
	return e, ok
}
