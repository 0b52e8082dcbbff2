package main

import (
	"GENBA-backend/internal/cli"
)

// ビルド時に -ldflags で埋め込む
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cli.SetVersion(Version, Commit)
	cli.Execute()
}
