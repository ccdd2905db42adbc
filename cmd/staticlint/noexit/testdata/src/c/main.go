package main

import "go.uber.org/zap"

func main() {
	log := zap.NewNop()
	log.Error("recoverable")
	log.Fatal("stop")            // want `вызов \(\*go.uber.org/zap.Logger\).Fatal в функции main запрещён`
	log.Sugar().Fatalf("stop %d", 1) // want `вызов \(\*go.uber.org/zap.SugaredLogger\).Fatalf в функции main запрещён`
}
