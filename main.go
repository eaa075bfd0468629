package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/riccione/hermes/cmd"
	"github.com/riccione/hermes/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		runAdd(ctx, os.Args[2:])
	case "rm", "remove":
		runRm(ctx, os.Args[2:])
	case "update":
		runUpdate(ctx, os.Args[2:])
	case "rename":
		runRename(ctx, os.Args[2:])
	case "ls":
		runLs(ctx, os.Args[2:])
	case "migrate":
		runMigrate(ctx, os.Args[2:])
	case "path":
		runPath(ctx, os.Args[2:])
	case "history":
		runHistory(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// globalFlags are accepted by every command that touches the codex
type globalFlags struct {
	file     string
	password string
	quiet    bool
}

func (g *globalFlags) register(fs *flag.FlagSet, withPassword bool) {
	fs.StringVar(&g.file, "f", "", "Codex file")
	fs.StringVar(&g.file, "file", "", "Codex file")
	fs.BoolVar(&g.quiet, "q", false, "Suppress progress bar and status messages")
	fs.BoolVar(&g.quiet, "quiet", false, "Suppress progress bar and status messages")
	if withPassword {
		fs.StringVar(&g.password, "p", "", "Password")
		fs.StringVar(&g.password, "password", "", "Password")
	}
}

func (g *globalFlags) session() *cmd.Session {
	cfg, err := config.Load(g.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	cfg.Quiet = cfg.Quiet || g.quiet

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	return cmd.NewSession(cfg, log, g.password)
}

func parse(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func runAdd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	var g globalFlags
	g.register(fs, true)
	var alias, code string
	var unencrypt bool
	fs.StringVar(&alias, "a", "", "Alias for the secret")
	fs.StringVar(&alias, "alias", "", "Alias for the secret")
	fs.StringVar(&code, "c", "", "Base32 secret")
	fs.StringVar(&code, "code", "", "Base32 secret")
	fs.BoolVar(&unencrypt, "u", false, "Store the secret unencrypted")
	fs.BoolVar(&unencrypt, "unencrypt", false, "Store the secret unencrypted")
	parse(fs, args)

	s := g.session()
	defer s.Close()
	cmd.Add(ctx, s, alias, code, unencrypt)
}

func runRm(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	var g globalFlags
	g.register(fs, false)
	var alias string
	fs.StringVar(&alias, "a", "", "Alias to remove")
	fs.StringVar(&alias, "alias", "", "Alias to remove")
	parse(fs, args)

	if alias == "" && fs.NArg() == 1 {
		alias = fs.Arg(0)
	}

	s := g.session()
	defer s.Close()
	cmd.Remove(ctx, s, alias)
}

func runUpdate(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	var g globalFlags
	g.register(fs, true)
	var alias, code string
	var unencrypt bool
	fs.StringVar(&alias, "a", "", "Alias to update")
	fs.StringVar(&alias, "alias", "", "Alias to update")
	fs.StringVar(&code, "c", "", "New base32 secret")
	fs.StringVar(&code, "code", "", "New base32 secret")
	fs.BoolVar(&unencrypt, "u", false, "Store the secret unencrypted")
	fs.BoolVar(&unencrypt, "unencrypt", false, "Store the secret unencrypted")
	parse(fs, args)

	s := g.session()
	defer s.Close()
	cmd.Update(ctx, s, alias, code, unencrypt)
}

func runRename(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("rename", flag.ExitOnError)
	var g globalFlags
	g.register(fs, false)
	parse(fs, args)

	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: hermes rename [-f <codex>] <old> <new>")
		os.Exit(1)
	}

	s := g.session()
	defer s.Close()
	cmd.Rename(ctx, s, fs.Arg(0), fs.Arg(1))
}

func runLs(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	var g globalFlags
	g.register(fs, true)
	var alias, format string
	var unencrypt bool
	fs.StringVar(&alias, "a", "", "Show only aliases containing this text")
	fs.StringVar(&alias, "alias", "", "Show only aliases containing this text")
	fs.BoolVar(&unencrypt, "u", false, "Do not decrypt, show only unencrypted codes")
	fs.BoolVar(&unencrypt, "unencrypt", false, "Do not decrypt, show only unencrypted codes")
	fs.StringVar(&format, "format", cmd.FormatTable, "Output format: table or json")
	parse(fs, args)

	if alias == "" && fs.NArg() == 1 {
		alias = fs.Arg(0)
	}

	s := g.session()
	defer s.Close()
	cmd.Ls(ctx, s, alias, unencrypt, format)
}

func runMigrate(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	var g globalFlags
	g.register(fs, false)
	dryRun := fs.Bool("dry-run", false, "Show the changes without writing")
	parse(fs, args)

	s := g.session()
	defer s.Close()
	cmd.Migrate(ctx, s, *dryRun)
}

func runPath(_ context.Context, args []string) {
	fs := flag.NewFlagSet("path", flag.ExitOnError)
	var g globalFlags
	g.register(fs, false)
	parse(fs, args)

	s := g.session()
	defer s.Close()
	cmd.Path(s)
}

func runHistory(_ context.Context, args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	var g globalFlags
	g.register(fs, false)
	limit := fs.Int("n", 20, "Number of entries, 0 for all")
	parse(fs, args)

	s := g.session()
	defer s.Close()
	cmd.History(s, *limit)
}

func runKeyring(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: hermes keyring <save|delete|status> [-f <codex>]")
		os.Exit(1)
	}

	fs := flag.NewFlagSet("keyring "+args[0], flag.ExitOnError)
	var g globalFlags
	g.register(fs, args[0] == "save")
	parse(fs, args[1:])

	s := g.session()
	defer s.Close()

	switch args[0] {
	case "save":
		cmd.KeyringSave(ctx, s)
	case "delete":
		cmd.KeyringDelete(s)
	case "status":
		cmd.KeyringStatus(s)
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Usage: hermes keyring <save|delete|status>")
		os.Exit(1)
	}
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: hermes completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("hermes - TOTP codes from a local, encrypted codex")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  hermes <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  add         Store a new TOTP secret and print its code")
	fmt.Println("  rm, remove  Remove a record")
	fmt.Println("  update      Replace the secret of a record")
	fmt.Println("  rename      Change the alias of a record")
	fmt.Println("  ls          Show current codes")
	fmt.Println("  migrate     Convert the codex to the JSON line format")
	fmt.Println("  path        Show where the codex is stored")
	fmt.Println("  history     Show recent changes to the codex")
	fmt.Println("  keyring     Manage the password in the OS keyring")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  hermes add -a github -c JBSWY3DPEHPK3PXP   # Store an encrypted secret")
	fmt.Println("  hermes ls                                  # Show all codes")
	fmt.Println("  hermes ls -a git                           # Bare code when one alias matches")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Printf("  %-16s Codex file (overridden by -f)\n", config.EnvCodex)
	fmt.Printf("  %-16s Password (overridden by -p)\n", config.EnvPassword)
	fmt.Printf("  %-16s Suppress progress bar and status messages\n", config.EnvQuiet)
	fmt.Printf("  %-16s Verbose logging to stderr\n", config.EnvDebug)
	fmt.Println()
	fmt.Println("Use 'hermes help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "add":
		fmt.Println("hermes add -a <alias> -c <code> [-u] [-p <password>] [-f <codex>] [-q]")
		fmt.Println()
		fmt.Println("Stores a new TOTP secret and prints its current code.")
		fmt.Println("The code is upper-cased and '=' padding is stripped before validation.")
		fmt.Println("Secrets are encrypted with the password unless --unencrypt is given.")
		fmt.Println("The codex is created on first use.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -a, --alias      Name for the secret (must not contain ':')")
		fmt.Println("  -c, --code       Base32 secret")
		fmt.Println("  -u, --unencrypt  Store the secret in plain text")
		fmt.Println("  -p, --password   Password (else HERMES_PASSWORD, keyring or prompt)")
	case "rm", "remove":
		fmt.Println("hermes rm -a <alias> [-f <codex>]")
		fmt.Println()
		fmt.Println("Removes every record whose alias matches exactly (case-sensitive).")
		fmt.Println("The previous codex is kept as a .bak file next to it.")
	case "update":
		fmt.Println("hermes update -a <alias> -c <code> [-u] [-p <password>] [-f <codex>]")
		fmt.Println()
		fmt.Println("Replaces the secret of an existing record and prints the new code.")
		fmt.Println("The record keeps its place in the codex; its creation time is reset.")
	case "rename":
		fmt.Println("hermes rename [-f <codex>] <old> <new>")
		fmt.Println()
		fmt.Println("Changes the alias of a record. Everything else is left as is.")
	case "ls":
		fmt.Println("hermes ls [-a <filter>] [-u] [--format table|json] [-p <password>] [-f <codex>] [-q]")
		fmt.Println()
		fmt.Println("Shows the current code of every record.")
		fmt.Println("The filter keeps aliases containing the text, ignoring case.")
		fmt.Println("When the filter matches exactly one record only the code is printed,")
		fmt.Println("which makes 'hermes ls -a github | pbcopy' work.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -a, --alias      Filter by alias")
		fmt.Println("  -u, --unencrypt  Never ask for a password; encrypted rows show 'locked'")
		fmt.Println("  --format         table (default) or json")
	case "migrate":
		fmt.Println("hermes migrate [--dry-run] [-f <codex>]")
		fmt.Println()
		fmt.Println("Rewrites legacy 'alias:secret:0|1:algorithm' lines as JSON lines.")
		fmt.Println("A timestamped snapshot of the codex is taken first; without it nothing")
		fmt.Println("is written. Lines that match neither format are dropped.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --dry-run  Print a diff of the changes and exit")
	case "path":
		fmt.Println("hermes path [-f <codex>]")
		fmt.Println()
		fmt.Println("Prints the codex, backup and journal locations.")
	case "history":
		fmt.Println("hermes history [-n <count>] [-f <codex>]")
		fmt.Println()
		fmt.Println("Prints recent changes to the codex, newest first.")
		fmt.Println("Secrets are never recorded.")
	case "keyring":
		fmt.Println("hermes keyring <save|delete|status> [-f <codex>]")
		fmt.Println()
		fmt.Println("Stores the codex password in the OS keyring so it is not asked for.")
		fmt.Println("'save' checks the password against the codex before storing it.")
		fmt.Println("A stored password that no longer opens the codex is ignored.")
	case "completion":
		fmt.Println("hermes completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(hermes completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(hermes completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  hermes completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
