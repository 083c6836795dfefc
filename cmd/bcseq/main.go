// cmd/bcseq/main.go
package main

import (
	"bcseq/internal/app"
	"bcseq/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
