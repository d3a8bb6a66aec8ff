// Command codehealth scores the health of changed TypeScript and JavaScript code.
package main

import (
	"os"

	"github.com/gihwan-dev/codehealth/cmd"
	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/internal/iocache"
)

func main() {
	defer iocache.CloseHistory()

	if err := cmd.Execute(); err != nil {
		contract.LogWarn("codehealth failed", err)
		iocache.CloseHistory()
		os.Exit(1)
	}
}
