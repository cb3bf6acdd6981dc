// Package main is the entry point of the DocVault server.
//
//	@title						DocVault API
//	@version					1.0
//	@description				Document management and retrieval-augmented chat over uploaded PDFs.
//	@BasePath					/
//
//	@securityDefinitions.apikey	Bearer
//	@in							header
//	@name						Authorization
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/kart-io/docvault/cmd/docvault/app"
)

func main() {
	app.NewApp().Run()
}
