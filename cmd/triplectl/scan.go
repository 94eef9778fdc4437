package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/chronodb/chrono"
	"github.com/chronodb/chrono/codec"
	"github.com/chronodb/chrono/engine"
	"github.com/chronodb/chrono/store"
	"github.com/chronodb/chrono/triple"
)

var validIndexes = map[string]bool{"eavt": true, "aevt": true, "avet": true, "vaet": true}

func cmdScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	eFlag := fs.Uint64("e", 0, "bind the entity component")
	aFlag := fs.String("a", "", "bind the attribute component (ident)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 2 {
		return fmt.Errorf("scan requires a database directory and an index name")
	}
	dir, index := rest[0], rest[1]
	if !validIndexes[index] {
		return fmt.Errorf("scan: unknown index %q (want eavt, aevt, avet or vaet)", index)
	}

	db, err := chrono.EmptyDB(dir, nil, engine.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	var c store.Components
	if *eFlag != 0 {
		e := triple.Eid(*eFlag)
		c.E = &e
	}
	if *aFlag != "" {
		attr, ok := db.Store().AttrByIdent(triple.NewKeyword(*aFlag))
		if !ok {
			return fmt.Errorf("scan: unknown attribute %s", *aFlag)
		}
		aid := attr.Aid
		c.A = &aid
	}

	datoms, err := db.Datoms(c)
	if err != nil {
		return err
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"e", "a", "v", "tx", "added"})
	for _, d := range datoms {
		attr, _ := db.Store().AttrByID(d.A)
		table.Append([]string{
			strconv.FormatUint(uint64(d.E), 10),
			attr.Ident.String(),
			formatValue(d.V),
			strconv.FormatUint(uint64(d.Tx), 10),
			strconv.FormatBool(d.Added),
		})
	}
	table.Render()
	fmt.Printf("%d datoms\n", len(datoms))
	return nil
}

func formatValue(v triple.Value) string {
	if b, ok := v.([]byte); ok {
		return codec.DisplayBytes(b)
	}
	return fmt.Sprintf("%v", v)
}
