package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	_ "github.com/gxcore/gxcore/internal/bus"
	"github.com/gxcore/gxcore/internal/component"
	_ "github.com/gxcore/gxcore/internal/cpu/m88k"
	"github.com/gxcore/gxcore/internal/emulator"
	glog "github.com/gxcore/gxcore/internal/log"
	"github.com/gxcore/gxcore/internal/template"
	"github.com/gxcore/gxcore/internal/ui/tui"
)

var (
	verbose      bool
	templatesDir string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gxemul [machine.conf]",
		Short: "A dyntrans-based multi-architecture machine emulator",
		Long: `gxemul builds a tree of emulated hardware components (CPUs, buses,
memory, devices) and steps it forward in virtual time.

Without an argument it starts with an empty tree and drops into the Paused
console, where components are added, removed, and loaded through console
commands, and "run" starts execution.

With a machine.conf argument, that file is deserialized as the starting tree.

Examples:
  gxemul                        # start empty, build the tree interactively
  gxemul saved-machine.conf      # resume a previously saved tree
  gxemul list-components         # show every registered class and template`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE:                  runConsole,
	}

	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose debug logging")
	rootCmd.Flags().StringVar(&templatesDir, "templates", "", "directory of machine templates to load at startup")

	listCmd := &cobra.Command{
		Use:   "list-components",
		Short: "List every registered component class and template",
		Args:  cobra.NoArgs,
		RunE:  listComponents,
	}
	rootCmd.AddCommand(listCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func listComponents(cmd *cobra.Command, args []string) error {
	for _, name := range component.RegisteredClasses() {
		fmt.Println(name)
	}
	for _, name := range template.RegisteredNames() {
		fmt.Println(name + " (template)")
	}
	return nil
}

func runConsole(cmd *cobra.Command, args []string) error {
	logger := glog.New(verbose)
	e := emulator.New(logger)

	if templatesDir != "" {
		if _, err := template.LoadDir(templatesDir); err != nil {
			return fmt.Errorf("loading templates from %s: %w", templatesDir, err)
		}
	}

	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		root, err := component.Deserialize(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("loading %s: %w", args[0], err)
		}
		e.SetRootComponent(root)
	}

	e.SetRunState(emulator.Paused)

	var prevRegisters map[string]string
	var lastOutput string

	e.Run(100e-6, func(e *emulator.Emulator) {
		snap := e.Snapshot(prevRegisters)
		if lastOutput != "" {
			snap.Warnings = append(snap.Warnings, lastOutput)
		}
		prevRegisters = make(map[string]string, len(snap.Registers))
		for _, r := range snap.Registers {
			prevRegisters[r.Name] = r.Value
		}

		line, err := tui.ReadCommand(snap)
		if err != nil {
			e.SetRunState(emulator.Quitting)
			return
		}

		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			return
		}
		switch tokens[0] {
		case "quit", "exit":
			e.SetRunState(emulator.Quitting)
			return
		case "run", "continue":
			e.SetRunState(emulator.Running)
			return
		}

		out, err := e.ExecuteCommand(tokens)
		if err != nil {
			lastOutput = err.Error()
			return
		}
		lastOutput = out
	})

	return nil
}
