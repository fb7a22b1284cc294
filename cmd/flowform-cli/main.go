package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	flowform "github.com/goliatone/go-flowform"
	"github.com/goliatone/go-flowform/pkg/record"
	"github.com/goliatone/go-flowform/pkg/schema"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "lint":
		err = runLint(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "reconcile":
		err = runReconcile(os.Args[2:])
	case "fill":
		err = runFill(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: flowform-cli <command> [flags]

commands:
  lint       validate a workflow document
  import     build a workflow from an OpenAPI operation
  reconcile  map a record onto a workflow and print the result
  fill       walk the workflow wizard interactively`)
}

func runLint(args []string) error {
	fs := flag.NewFlagSet("lint", flag.ExitOnError)
	path := fs.String("workflow", "workflow.json", "workflow document path")
	fs.Parse(args)

	w, err := schema.ParseFile(*path)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d steps, %d fields, ok\n", w.Name, len(w.Steps), len(w.AllFields()))
	return nil
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	path := fs.String("source", "openapi.json", "OpenAPI document path")
	opID := fs.String("operation", "", "operation ID (optional when unambiguous)")
	output := fs.String("output", "", "output file (stdout if empty)")
	fs.Parse(args)

	data, err := os.ReadFile(*path)
	if err != nil {
		return fmt.Errorf("read %s: %w", *path, err)
	}
	w, err := flowform.ImportOpenAPI(context.Background(), data, *opID)
	if err != nil {
		return err
	}
	return writeJSON(*output, w)
}

func runReconcile(args []string) error {
	fs := flag.NewFlagSet("reconcile", flag.ExitOnError)
	workflowPath := fs.String("workflow", "workflow.json", "workflow document path")
	recordPath := fs.String("record", "record.json", "record payload path")
	output := fs.String("output", "", "output file (stdout if empty)")
	fs.Parse(args)

	w, err := schema.ParseFile(*workflowPath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(*recordPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", *recordPath, err)
	}
	rec, err := record.Parse(data)
	if err != nil {
		return err
	}

	vals, report := flowform.Reconcile(w, rec)
	out := struct {
		Values      map[string]any    `json:"values"`
		Resolutions map[string]string `json:"resolutions"`
		Unmatched   map[string]string `json:"unmatched,omitempty"`
	}{
		Values:      map[string]any(vals),
		Resolutions: make(map[string]string, len(report.Resolutions)),
	}
	for fieldID, res := range report.Resolutions {
		out.Resolutions[fieldID] = string(res.Strategy)
	}
	if len(report.Unmatched) > 0 {
		out.Unmatched = make(map[string]string, len(report.Unmatched))
		for _, m := range report.Unmatched {
			out.Unmatched[m.FieldID] = m.Value
		}
	}
	return writeJSON(*output, out)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("written to %s\n", path)
	return nil
}
