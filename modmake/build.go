package main

import (
	. "github.com/saylorsolutions/modmake"
)

const (
	zipcrackVersion = "0.1.0"
)

func main() {
	b := NewBuild()
	b.Generate().DependsOnRunner("tidy", "", Go().ModTidy())

	zipcrack := NewAppBuild("zipcrack", "cmd/zipcrack", zipcrackVersion)
	zipcrack.Build(func(gb *GoBuild) {
		gb.
			StripDebugSymbols().
			SetVariable("main", "version", zipcrackVersion).
			CgoEnabled(false)
	})
	zipcrack.Variant("windows", "amd64")
	zipcrack.Variant("linux", "amd64")
	zipcrack.Variant("linux", "arm64")
	zipcrack.Variant("darwin", "amd64")
	zipcrack.Variant("darwin", "arm64")
	b.ImportApp(zipcrack)

	b.Execute()
}
