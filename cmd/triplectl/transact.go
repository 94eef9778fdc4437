package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/chronodb/chrono"
	"github.com/chronodb/chrono/engine"
)

func cmdTransact(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("transact requires a database directory and an ops.json file")
	}
	dir, path := args[0], args[1]

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var decoded []any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("triplectl: %s: %w", path, err)
	}

	ops, err := parseOps(decoded)
	if err != nil {
		return err
	}

	db, err := chrono.EmptyDB(dir, nil, engine.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := db.Transact(nil, ops)
	if err != nil {
		return err
	}

	for _, d := range report.TxData {
		if d.Added {
			fmt.Println(color.GreenString("+ %s", d.String()))
		} else {
			fmt.Println(color.RedString("- %s", d.String()))
		}
	}
	fmt.Printf("tempids: %v\n", report.TempIds)
	return nil
}
