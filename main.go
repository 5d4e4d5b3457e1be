// main is the entry point for the reusability CLI.
package main

import (
	"github.com/reusabilityapi/reusability/cmd"
	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/internal/iocache"
)

func main() {
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("reusability failed", err)
	}
}
