// Command devflow is the entry point for the developer activity analytics CLI.
package main

import (
	"fmt"
	"os"

	"github.com/devflow/devflow/cmd"
	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/internal/datastore"
)

func main() {
	cmd.SetStoreManager(datastore.Manager)

	err := cmd.Execute()
	datastore.CloseStores()
	contract.SyncLogger()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
