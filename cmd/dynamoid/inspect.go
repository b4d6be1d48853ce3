package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/remomueller/dynamoid"
)

var (
	inspectJSON  bool
	inspectWatch bool
)

// tableReport is the printable shape of an inspected schema.
type tableReport struct {
	Model      string        `json:"model"`
	HashKey    string        `json:"hash_key"`
	RangeKey   string        `json:"range_key,omitempty"`
	Timestamps bool          `json:"timestamps"`
	Fields     []fieldReport `json:"fields"`
}

type fieldReport struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <definition.yml>",
	Short: "Build the schema for a model definition and describe its table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]

		if err := inspectFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
			os.Exit(1)
		}

		if inspectWatch {
			if err := watchFile(path); err != nil {
				fmt.Fprintf(os.Stderr, "watch: %v\n", err)
				os.Exit(1)
			}
		}
	},
}

func inspectFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	model, err := dynamoid.LoadModel(f, dynamoid.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	reg := model.Registry()
	report := tableReport{
		Model:      reg.Model(),
		HashKey:    reg.HashKey(),
		RangeKey:   reg.RangeKey(),
		Timestamps: reg.TimestampsEnabled(),
	}
	for _, desc := range reg.Fields() {
		kind := string(desc.Type.Kind)
		if desc.Type.IsCustom() {
			kind = "custom"
		}
		report.Fields = append(report.Fields, fieldReport{Name: desc.Name, Type: kind})
	}

	if inspectJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	fmt.Printf("model %s (hash key: %s", report.Model, report.HashKey)
	if report.RangeKey != "" {
		fmt.Printf(", range key: %s", report.RangeKey)
	}
	fmt.Printf(", timestamps: %v)\n", report.Timestamps)
	for _, field := range report.Fields {
		fmt.Printf("  %-24s %s\n", field.Name, field.Type)
	}
	return nil
}

// watchFile re-validates the definition whenever it changes. Editors often
// replace files instead of writing in place, so the parent directory is
// watched and events are filtered by name.
func watchFile(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "watching %s\n", path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := inspectFile(path); err != nil {
				fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		}
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output in JSON format")
	inspectCmd.Flags().BoolVar(&inspectWatch, "watch", false, "Re-validate when the definition changes")
}
