package main

import (
	"math/rand"
	"time"

	"github.com/kiosk404/echotask/internal/echotask/cmd"
	cmdutil "github.com/kiosk404/echotask/internal/echotask/cmd/util"
)

func main() {
	rand.New(rand.NewSource(time.Now().UnixNano()))

	command := cmd.NewDefaultEchoTaskCommand()
	cmdutil.CheckErr(command.Execute())
}
