package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/bulletin/core"
	"github.com/trezcool/bulletin/core/session"
	"github.com/trezcool/bulletin/storage/database"
)

var (
	openDBFunc = database.Open // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf  *core.Config
	db    *sqlx.DB
	out   io.Writer
	color bool // ANSI colors, for terminals only
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate up|up-by-one|up-to VERSION|down|down-to VERSION|redo|status|version - migrate the DB")
	fmt.Fprintln(cli.out, "  simulate -file PAYLOAD [-set COURSE/ASSIGNMENT=POINTS/TOTAL] [-add COURSE/CATEGORY=POINTS/TOTAL]")
	fmt.Fprintln(cli.out, "           [-delete COURSE/ASSIGNMENT] [-hide COURSE/CATEGORY] - print what-if grades")
	fmt.Fprintln(cli.out, "           (edits are applied in command-line order)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	simulateCmd := flag.NewFlagSet("simulate", flag.ContinueOnError)
	simulateCmd.SetOutput(cli.out)
	var opts simulateOptions
	simulateCmd.StringVar(&opts.file, "file", "", "The gradebook payload (JSON), \"-\" for stdin.")
	simulateCmd.Var(&journalFlag{kind: session.KindUpdatePoints, opts: &opts}, "set", "Set an assignment score, ex: \"Math/Quiz 1=9/10\". Repeatable.")
	simulateCmd.Var(&journalFlag{kind: session.KindAddAssignment, opts: &opts}, "add", "Add an assignment to a category, ex: \"Math/Tests=40/50\". Repeatable.")
	simulateCmd.Var(&journalFlag{kind: session.KindDeleteAssignment, opts: &opts}, "delete", "Delete an assignment, ex: \"Math/Quiz 1\". Repeatable.")
	simulateCmd.Var(&journalFlag{kind: session.KindToggleCategory, opts: &opts}, "hide", "Hide a category, ex: \"Math/Homework\". Repeatable, hiding twice is a no-op.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "simulate":
		if err := simulateCmd.Parse(args[2:]); err != nil {
			if err == flag.ErrHelp {
				return errHelp
			}
			return err
		}
		if opts.file == "" {
			simulateCmd.Usage()
			return errHelp
		}
		return cli.simulate(opts)
	default:
		cli.printUsage()
		return errHelp
	}
}

// database opens the DB on first use.
func (cli *commandLine) database() (*sqlx.DB, error) {
	if cli.db != nil {
		return cli.db, nil
	}
	db, err := openDBFunc(cli.conf)
	if err != nil {
		return nil, err
	}
	if err = database.Ping(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	cli.db = db
	return db, nil
}
