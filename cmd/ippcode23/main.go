// Command ippcode23 interprets an IPPcode23 XML program.
package main

import (
	"os"

	"github.com/mna/mainer"

	"github.com/mna/ippcode23/internal/maincmd"
)

func main() {
	c := maincmd.Cmd{}
	os.Exit(int(c.Main(os.Args, mainer.CurrentStdio())))
}
