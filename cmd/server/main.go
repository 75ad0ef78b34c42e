package main

import "github.com/nebula-marketing/lead-importer/internal/bootstrap"

// @title		Lead Importer API
// @version	1.0
// @description	Turns uploaded spreadsheets into normalized sales leads.
// @BasePath	/
func main() {
	bootstrap.Run()
}
