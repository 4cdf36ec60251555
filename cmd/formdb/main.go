// Command formdb queries and edits a word-form store from the shell.
//
//	formdb --store forms.tsv set run past ran
//	formdb --store forms.tsv words rn -n 3
//	formdb --store sqlite://forms.db forms run pas
//	formdb --config formdb.yaml list --format json
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
