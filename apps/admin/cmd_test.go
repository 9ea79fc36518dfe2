package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"
	"testing/fstest"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/wanyama/core"
	"github.com/trezcool/wanyama/core/seed"
	"github.com/trezcool/wanyama/core/user"
	dummydb "github.com/trezcool/wanyama/storage/database/dummy"
)

type testLogger struct {
	t *testing.T
}

func (l testLogger) Enable(bool)                           {}
func (l testLogger) Debug(msg string, args ...interface{}) { l.t.Log("DEBUG:", msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.t.Log("INFO:", msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.t.Log("WARN:", msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.t.Log("ERROR:", msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.t.Fatal(msg, args) }

var (
	usrRepo user.Repository
	seedFS  = fstest.MapFS{
		"animals.json": &fstest.MapFile{Data: []byte(`[
			{"_id": {"$oid": "60a7b2c2d3e4f5a6b7c8da01"}, "name": "Okapi", "species": "Okapia johnstoni"}
		]`)},
		"sponsors.json": &fstest.MapFile{Data: []byte(`[
			{"_id": "s1", "name": "Congo Basin Trust"}
		]`)},
	}
)

func setup(t *testing.T) (*commandLine, seed.Store) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	store := dummydb.NewSeedStore(db)
	usrRepo = dummydb.NewUserRepository(db)

	validate := validator.New()
	core.InitValidators(validate, newTranslator())

	migrateFunc = func(*sql.DB) error { return nil }

	// start CLI
	return &commandLine{
		conf:     &core.Config{Debug: true},
		logger:   testLogger{t},
		db:       &sqlx.DB{},
		store:    store,
		seeds:    seedFS,
		usrRepo:  usrRepo,
		validate: validate,
	}, store
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "course", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_seed(t *testing.T) {
	t.Run("seeds an empty store", func(t *testing.T) {
		cli, store := setup(t)
		if err := cli.run([]string{"admin", "seed"}); err != nil {
			t.Fatalf("cli.run() unexpected error = %v", err)
		}
		if n, _ := store.Count(context.Background(), "animals"); n != 1 {
			t.Errorf("animals count = %d, want 1", n)
		}
		if n, _ := store.Count(context.Background(), "sponsors"); n != 1 {
			t.Errorf("sponsors count = %d, want 1", n)
		}
	})

	t.Run("migrates the schema first", func(t *testing.T) {
		cli, store := setup(t)
		var migrated bool
		migrateFunc = func(*sql.DB) error {
			migrated = true
			return nil
		}
		if err := cli.run([]string{"admin", "seed"}); err != nil {
			t.Fatalf("cli.run() unexpected error = %v", err)
		}
		if !migrated {
			t.Error("seed did not migrate the schema")
		}
		if n, _ := store.Count(context.Background(), "animals"); n != 1 {
			t.Errorf("animals count = %d, want 1", n)
		}
	})

	t.Run("migration failure aborts the seed", func(t *testing.T) {
		cli, store := setup(t)
		migrateFunc = func(*sql.DB) error { return fmt.Errorf("NOPE") }
		if err := cli.run([]string{"admin", "seed"}); err == nil {
			t.Fatal("cli.run() expected an error")
		}
		if n, _ := store.Count(context.Background(), "animals"); n != 0 {
			t.Errorf("aborted seed wrote records: count = %d", n)
		}
	})

	t.Run("populated store is left untouched", func(t *testing.T) {
		cli, store := setup(t)
		ctx := context.Background()
		if _, err := store.InsertIfAbsent(ctx, "animals", "pre", seed.Record{"name": "Bonobo"}); err != nil {
			t.Fatalf("InsertIfAbsent() failed: %v", err)
		}
		if err := cli.run([]string{"admin", "seed"}); err != nil {
			t.Fatalf("cli.run() unexpected error = %v", err)
		}
		if n, _ := store.Count(ctx, "animals"); n != 1 {
			t.Errorf("animals count = %d, want 1 (untouched)", n)
		}
	})

	t.Run("reset declined", func(t *testing.T) {
		cli, store := setup(t)
		confirmReadFunc = func() (string, error) { return "no", nil }
		if err := cli.run([]string{"admin", "seed", "-reset"}); err != errResetAborted {
			t.Fatalf("cli.run() error = %v, want %v", err, errResetAborted)
		}
		if n, _ := store.Count(context.Background(), "animals"); n != 0 {
			t.Errorf("declined reset wrote records: count = %d", n)
		}
	})

	t.Run("reset confirmed reseeds", func(t *testing.T) {
		cli, store := setup(t)
		ctx := context.Background()
		for _, id := range []string{"e1", "e2"} {
			if _, err := store.InsertIfAbsent(ctx, "animals", id, seed.Record{"name": "stale"}); err != nil {
				t.Fatalf("InsertIfAbsent() failed: %v", err)
			}
		}
		confirmReadFunc = func() (string, error) { return "yes", nil }
		if err := cli.run([]string{"admin", "seed", "-reset"}); err != nil {
			t.Fatalf("cli.run() unexpected error = %v", err)
		}
		if n, _ := store.Count(ctx, "animals"); n != 1 {
			t.Errorf("animals count = %d, want 1 after reset", n)
		}
	})
}

func Test_commandLine_addUser(t *testing.T) {
	cli, _ := setup(t)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "username but no email", args: []string{"adduser", "-username", "awe"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd"}, wantErr: errHelp},
		{name: "create admin", args: []string{"adduser", "-username", "Awe ", "-email", "AWE@test.cd", "-name", "Awe Mdr", "-admin"}, extra: extra{pwd: "mdr"}},
		{name: "update existing", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd"}, extra: extra{pwd: "lol"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				usr, err := usrRepo.GetUser(context.Background(), user.GetFilter{UsernameOrEmail: []string{"awe"}})
				if err != nil {
					t.Fatalf("GetUser() failed: %v", err)
				}
				if extra, ok := tt.extra.(extra); ok {
					if err := usr.CheckPassword(extra.pwd); err != nil {
						t.Error("failed to set new password")
					}
				}
				if !usr.IsActive {
					t.Error("user not activated")
				}
				if !usr.IsAdmin() {
					t.Error("admin roles not preserved")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
