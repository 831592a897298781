package main

import (
	"github.com/sirupsen/logrus"

	"github.com/emrgen/pagebuilder/internal/config"
	"github.com/emrgen/pagebuilder/internal/server"
)

func main() {
	cnf := config.LoadConfig()
	config.SetupLogging(cnf)
	logrus.SetLevel(logrus.DebugLevel)

	if err := server.Start(cnf); err != nil {
		logrus.Fatal(err)
	}
}
