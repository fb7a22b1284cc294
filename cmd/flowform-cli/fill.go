package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cast"

	flowform "github.com/goliatone/go-flowform"
	"github.com/goliatone/go-flowform/pkg/schema"
	"github.com/goliatone/go-flowform/pkg/values"
	"github.com/goliatone/go-flowform/pkg/wizard"
)

func runFill(args []string) error {
	fs := flag.NewFlagSet("fill", flag.ExitOnError)
	path := fs.String("workflow", "workflow.json", "workflow document path")
	output := fs.String("output", "", "payload output file (stdout if empty)")
	fs.Parse(args)

	w, err := schema.ParseFile(*path)
	if err != nil {
		return err
	}
	ctrl, err := flowform.NewWizard(w)
	if err != nil {
		return err
	}

	for {
		step := ctrl.Step()
		fmt.Printf("\n[%d/%d] %s\n", ctrl.Current()+1, len(w.Steps), step.Name)

		for _, field := range step.Fields {
			v, err := promptField(field)
			if err != nil {
				return err
			}
			ctrl.SetValue(field.ID, v)
		}

		if err := ctrl.Next(); err != nil {
			printStepErrors(ctrl, step)
			continue
		}
		if ctrl.CanSubmit() {
			break
		}
	}

	vals, err := ctrl.Finish()
	if err != nil {
		return err
	}
	payload := flowform.BuildPayload(w, vals)
	return writeJSON(*output, payload)
}

func promptField(field schema.Field) (any, error) {
	label := field.Label
	if field.Required {
		label += " *"
	}

	switch field.Type {
	case schema.FieldCheckbox, schema.FieldSwitch:
		var out bool
		err := survey.AskOne(&survey.Confirm{Message: label}, &out)
		return out, err

	case schema.FieldSelect, schema.FieldRadio, schema.FieldCombobox:
		var out string
		err := survey.AskOne(&survey.Select{Message: label, Options: field.Options}, &out)
		return out, err

	case schema.FieldMultiselect:
		var out []string
		err := survey.AskOne(&survey.MultiSelect{Message: label, Options: field.Options}, &out)
		return out, err

	case schema.FieldNumber, schema.FieldSlider, schema.FieldRating:
		var raw string
		err := survey.AskOne(&survey.Input{Message: label}, &raw)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(raw) == "" {
			return "", nil
		}
		n, err := cast.ToFloat64E(raw)
		if err != nil {
			return raw, nil
		}
		return n, nil

	case schema.FieldDateRange:
		var start, end string
		if err := survey.AskOne(&survey.Input{Message: label + " (start)"}, &start); err != nil {
			return nil, err
		}
		if err := survey.AskOne(&survey.Input{Message: label + " (end)"}, &end); err != nil {
			return nil, err
		}
		return values.Range{Start: start, End: end}, nil

	case schema.FieldTextarea:
		var out string
		err := survey.AskOne(&survey.Multiline{Message: label}, &out)
		return out, err

	default:
		var out string
		err := survey.AskOne(&survey.Input{Message: label}, &out)
		return out, err
	}
}

func printStepErrors(ctrl *wizard.Controller, step schema.Step) {
	for _, field := range step.Fields {
		for _, msg := range ctrl.FieldErrors(field.ID) {
			fmt.Printf("  %s: %s\n", field.Label, msg)
		}
	}
}
