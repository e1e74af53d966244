// Command gemorder orders gem decks so that every gem is introduced after
// the facets it depends on.
//
//	gemorder order decks/hsk1.json decks/hsk2.json.zst --output ordered.json --commit
//	gemorder stats decks/hsk1.json
//	echo '{"name":"我",...}' | gemorder review --score 0.7
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
