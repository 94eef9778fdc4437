package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/chronodb/chrono"
	"github.com/chronodb/chrono/engine"
)

func cmdOpen(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("open requires a database directory")
	}

	db, err := chrono.EmptyDB(args[0], nil, engine.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	s := db.Store()
	fmt.Printf("%s %s\n", color.GreenString("opened"), args[0])
	fmt.Printf("  max-eid: %d\n", s.MaxEid())
	fmt.Printf("  max-tx:  %d\n", s.MaxTx())
	fmt.Printf("  attrs:   %d\n", len(s.Schema()))
	return nil
}
