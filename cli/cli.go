// Package cli wires the compiler up to a cobra-based command line:
// `snekc build` lowers a source file to NASM text (and, optionally,
// assembles and links it), and `snekc run` does that plus executes
// the result. The teacher's main.go drove gcc directly with a couple
// of flag.Bool switches; this generalizes that same
// compile-then-shell-out idea onto cobra subcommands with a
// persistent --debug/--config pair.
package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/snek-lang/snekc/compiler"
	"github.com/snek-lang/snekc/config"
	"github.com/snek-lang/snekc/diagnostics"
)

var (
	debugFlag  bool
	configFlag string
	linkFlag   bool
)

// Execute runs the root cobra command with os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "snekc",
		Short: "snekc compiles the snek language to x86-64 assembly",
	}
	root.PersistentFlags().BoolVar(&debugFlag, "debug", false, "insert debug annotations into the generated assembly")
	root.PersistentFlags().StringVar(&configFlag, "config", "", "path to a .snekc.yaml configuration file")

	root.AddCommand(newBuildCmd())
	root.AddCommand(newRunCmd())
	return root
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <in.snek> <out.s>",
		Short: "compile a source file to NASM assembly",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0], args[1])
		},
	}
	cmd.Flags().BoolVar(&linkFlag, "link", false, "also assemble and link the result, via the configured assembler/linker")
	return cmd
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <in.snek> [input]",
		Short: "compile, link, and run a source file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 2 {
				input = args[1]
			}
			return runRun(args[0], input)
		},
	}
}

func runBuild(inPath, outPath string) error {
	log := diagnostics.New(debugFlag)

	cfg, err := config.Load(configFlag)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	src, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	c := compiler.New(string(src))
	c.SetDebug(debugFlag)
	out, err := c.Compile()
	if err != nil {
		diagnostics.Errorf(log, "compiling %s: %s", inPath, err)
		return err
	}

	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	log.Infof("wrote %s", outPath)

	if !linkFlag {
		return nil
	}
	return assembleAndLink(log, cfg, outPath)
}

// assembleAndLink shells out to the configured assembler and linker in
// turn: the assembler turns asmPath into a raw object file, then the
// linker performs a partial (relocatable) link of that object into
// cfg.RuntimeArchive — the path the runtime package's cgo directive
// statically links against. Using the linker for a `-r` relocatable
// link, rather than skipping straight to the runtime's cgo build step,
// mirrors spec.md §1's "assembler and linker" external-collaborator
// pair as two distinct tool invocations.
func assembleAndLink(log interface{ Infof(string, ...interface{}) }, cfg config.Config, asmPath string) error {
	objPath := asmPath + ".o"

	asmParts := strings.Fields(cfg.Assembler)
	asmArgs := append(append([]string{}, asmParts[1:]...), asmPath, "-o", objPath)
	if err := runTool(asmParts[0], asmArgs...); err != nil {
		return fmt.Errorf("assembling: %w", err)
	}
	log.Infof("assembled %s", objPath)

	linkParts := strings.Fields(cfg.Linker)
	linkArgs := append(append([]string{}, linkParts[1:]...), "-r", objPath, "-o", cfg.RuntimeArchive)
	if err := runTool(linkParts[0], linkArgs...); err != nil {
		return fmt.Errorf("linking: %w", err)
	}
	log.Infof("linked %s", cfg.RuntimeArchive)
	return nil
}

func runTool(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func runRun(inPath, input string) error {
	log := diagnostics.New(debugFlag)

	cfg, err := config.Load(configFlag)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	scratch := filepath.Join(os.TempDir(), "snekc-"+uuid.New().String())
	if err := os.Mkdir(scratch, 0o755); err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	asmPath := filepath.Join(scratch, "prog.s")
	if err := runBuildInto(inPath, asmPath); err != nil {
		return err
	}
	if err := assembleAndLink(log, cfg, asmPath); err != nil {
		return err
	}

	log.Infof("linked against %s; building cmd/snek-run", cfg.RuntimeArchive)
	binPath := filepath.Join(scratch, "snek-run")
	if err := runTool("go", "build", "-o", binPath, "./cmd/snek-run"); err != nil {
		return fmt.Errorf("building the runtime host: %w", err)
	}

	runCmd := exec.Command(binPath, input)
	runCmd.Stdout = os.Stdout
	runCmd.Stderr = os.Stderr
	return runCmd.Run()
}

func runBuildInto(inPath, outPath string) error {
	src, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}
	c := compiler.New(string(src))
	c.SetDebug(debugFlag)
	out, err := c.Compile()
	if err != nil {
		return fmt.Errorf("compiling %s: %w", inPath, err)
	}
	return os.WriteFile(outPath, []byte(out), 0o644)
}
