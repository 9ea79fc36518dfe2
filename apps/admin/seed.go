package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/wanyama/core/seed"
	"github.com/trezcool/wanyama/storage/database"
)

var (
	confirmReadFunc = readLine         // mockable
	migrateFunc     = database.Migrate // mockable

	errResetAborted = errors.New("reset aborted")
)

func readLine() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line), err
}

// seed runs the one-shot database bootstrap. The reset path destroys
// whole collections and requires an interactive confirmation.
func (cli *commandLine) seed(reset bool) error {
	if reset || cli.conf.SeedReset {
		fmt.Print("This DESTROYS all records of already-populated collections before reseeding. Type 'yes' to continue: ")
		answer, err := confirmReadFunc()
		if err != nil {
			return err
		}
		if answer != "yes" {
			return errResetAborted
		}
		cli.conf.SeedReset = true
	}

	// the schema must be current before reconciling
	if err := migrateFunc(cli.db.DB); err != nil {
		return errors.Wrap(err, "migrating database")
	}

	svc := seed.NewService(cli.store, cli.seeds, cli.validate, cli.logger, cli.conf)
	report := svc.Bootstrap(context.Background())
	if n := report.Errored(); n > 0 {
		return errors.Errorf("bootstrap finished with %d errored source(s)", n)
	}
	return nil
}
