package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/bulletin/core"
	"github.com/trezcool/bulletin/core/gradebook"
	"github.com/trezcool/bulletin/core/provider"
	"github.com/trezcool/bulletin/core/session"
)

var stdin io.Reader = os.Stdin // mockable

type simulateOptions struct {
	file    string
	journal []session.Mutation
	hidden  map[string]bool
}

// journalFlag appends its values to the journal in command-line order.
type journalFlag struct {
	kind session.Kind
	opts *simulateOptions
}

func (f *journalFlag) String() string {
	return ""
}

func (f *journalFlag) Set(v string) error {
	muts, err := f.mutations(v)
	if err != nil {
		return err
	}
	f.opts.journal = append(f.opts.journal, muts...)
	return nil
}

func (f *journalFlag) mutations(v string) ([]session.Mutation, error) {
	switch f.kind {
	case session.KindUpdatePoints:
		course, assignment, points, total, err := parseScoreArg(v)
		if err != nil {
			return nil, err
		}
		muts := []session.Mutation{{
			Kind: session.KindUpdatePoints, Course: course, Assignment: assignment,
			Field: gradebook.Earned.String(), Value: points,
		}}
		if total.Valid {
			muts = append(muts, session.Mutation{
				Kind: session.KindUpdatePoints, Course: course, Assignment: assignment,
				Field: gradebook.Total.String(), Value: total,
			})
		}
		return muts, nil
	case session.KindAddAssignment:
		course, category, points, total, err := parseScoreArg(v)
		if err != nil {
			return nil, err
		}
		return []session.Mutation{{
			Kind: session.KindAddAssignment, Course: course, Category: category, Points: points, Total: total,
		}}, nil
	case session.KindDeleteAssignment:
		course, assignment, err := splitPath(v)
		if err != nil {
			return nil, err
		}
		return []session.Mutation{{Kind: session.KindDeleteAssignment, Course: course, Assignment: assignment}}, nil
	case session.KindToggleCategory:
		course, category, err := splitPath(v)
		if err != nil {
			return nil, err
		}
		// toggling twice would show the category again
		key := course + "/" + category
		if f.opts.hidden[key] {
			return nil, nil
		}
		if f.opts.hidden == nil {
			f.opts.hidden = make(map[string]bool)
		}
		f.opts.hidden[key] = true
		return []session.Mutation{{Kind: session.KindToggleCategory, Course: course, Category: category}}, nil
	}
	return nil, errors.Errorf("unsupported mutation %q", f.kind)
}

// splitPath splits "COURSE/NAME" on the last slash; course titles may contain slashes.
func splitPath(s string) (course, name string, err error) {
	i := strings.LastIndex(s, "/")
	if i <= 0 || i == len(s)-1 {
		return "", "", errors.Errorf("%q must be of form COURSE/NAME", s)
	}
	return s[:i], s[i+1:], nil
}

// parseScoreArg parses "COURSE/NAME=POINTS[/TOTAL]". An empty POINTS clears the score.
func parseScoreArg(s string) (course, name string, points, total null.Float64, err error) {
	i := strings.LastIndex(s, "=")
	if i < 0 {
		err = errors.Errorf("%q must be of form COURSE/NAME=POINTS/TOTAL", s)
		return
	}
	if course, name, err = splitPath(s[:i]); err != nil {
		return
	}

	score := strings.SplitN(s[i+1:], "/", 2)
	if points, err = parseNumber(score[0]); err != nil {
		return
	}
	if len(score) == 2 {
		total, err = parseNumber(score[1])
	}
	return
}

func parseNumber(s string) (null.Float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.Float64{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return null.Float64{}, errors.Errorf("%q is not a number", s)
	}
	return null.Float64From(f), nil
}

func (cli *commandLine) readPayload(file string) (provider.Gradebook, error) {
	var r io.Reader
	if file == "-" {
		r = stdin
	} else {
		f, err := os.Open(file)
		if err != nil {
			return provider.Gradebook{}, errors.Wrap(err, "opening payload")
		}
		defer f.Close()
		r = f
	}

	var gb provider.Gradebook
	if err := json.NewDecoder(r).Decode(&gb); err != nil {
		return provider.Gradebook{}, errors.Wrap(err, "decoding payload")
	}
	if err := core.NewValidator(core.NewTranslator()).Struct(gb); err != nil {
		return provider.Gradebook{}, errors.Wrap(err, "validating payload")
	}
	return gb, nil
}

func (cli *commandLine) simulate(opts simulateOptions) error {
	gb, err := cli.readPayload(opts.file)
	if err != nil {
		return err
	}
	marks, err := session.Replay(gb, opts.journal)
	if err != nil {
		return err
	}
	return cli.report(marks)
}

// report prints one line per course, then the GPA.
func (cli *commandLine) report(marks *gradebook.Snapshot) error {
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	for _, c := range marks.Courses {
		if math.IsNaN(c.Value) {
			fmt.Fprintf(w, "%d\t%s\t%s\t-\n", c.Period, c.Name, "N/A")
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%.2f%%\t%s\n", c.Period, c.Name, c.Value, cli.paint(string(c.Letter()), gradebook.MarkColor(c.Value)))
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "writing report")
	}

	gpa := "N/A"
	if !math.IsNaN(marks.GPA) {
		gpa = strconv.FormatFloat(marks.GPA, 'f', 2, 64)
	}
	_, err := fmt.Fprintf(cli.out, "GPA: %s\n", gpa)
	return err
}

// paint wraps `s` in a 24-bit ANSI color given as "#rrggbb".
func (cli *commandLine) paint(s, hex string) string {
	if !cli.color {
		return s
	}
	rgb, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return s
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", rgb>>16&0xff, rgb>>8&0xff, rgb&0xff, s)
}
