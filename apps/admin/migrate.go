package main

import (
	"fmt"
	"strconv"

	"github.com/trezcool/bulletin/storage/database"
)

var runMigrationFunc = database.RunMigration // mockable

func (cli *commandLine) migrate(args []string) error {
	command, arguments := args[0], args[1:]
	switch command {
	case "up", "up-by-one", "down", "redo", "status", "version": // pass
	case "up-to", "down-to":
		if len(arguments) == 0 {
			return fmt.Errorf("%s must be of form: migrate %s VERSION", command, command)
		}
		if _, err := strconv.ParseInt(arguments[0], 10, 64); err != nil {
			return fmt.Errorf("version must be a number (got '%s')", arguments[0])
		}
	default:
		return fmt.Errorf("%q: no such command", command)
	}

	db, err := cli.database()
	if err != nil {
		return err
	}
	return runMigrationFunc(db, command, arguments...)
}
