// Command potability serves water potability predictions over HTTP.
//
// General API documentation for swaggo. Run `go generate` to regenerate
// internal/api/docs after changing handler annotations.
//
//	@title			Water Quality API
//	@version		1.0.0
//	@description	Predicts drinking water potability from nine measurements and stores every prediction.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@BasePath	/
//	@schemes	http https
package main

//go:generate swag init -g main.go -o internal/api/docs --outputTypes go --parseInternal

import (
	"os"

	"github.com/tphakala/potability-go/cmd"
)

func main() {
	rootCmd := cmd.RootCommand()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
