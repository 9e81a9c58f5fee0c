/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/allbin/go-lin/cmd"
	"github.com/golang/glog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
