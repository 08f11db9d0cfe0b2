package main

import (
	"flag"
	"fmt"
	"time"

	"actorsys"
	"actorsys/internal/actorlog"
)

type printerActor struct{}

func (printerActor) Receive(ctx actorsys.Context) {
	switch msg := ctx.Message().(type) {
	case string:
		fmt.Print(msg)
	case actorsys.Start, actorsys.Stop:
		_ = msg
	}
}

func main() {
	workers := flag.Int("workers", 4, "dispatcher worker pool size")
	flag.Parse()

	logger := actorlog.New()
	logger.AddSink(actorlog.NewStdSink())
	logger.SetLevel(actorlog.LevelInfo)
	logger.Start()
	defer logger.Stop()

	system := actorsys.NewActorSystem("actordemo")
	system.SetLogger(logger)
	system.SpawnThreads(*workers)

	printer, err := system.ActorOf(func() actorsys.Actor { return printerActor{} }, "printer")
	if err != nil {
		panic(err)
	}
	printer.Tell("hello\n", system.DeadLetters())

	time.Sleep(100 * time.Millisecond)
	system.Shutdown()
}
