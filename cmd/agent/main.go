package main

import (
	"github.com/SchmitzHorst/ai-agent-service/cli"
	"github.com/SchmitzHorst/ai-agent-service/logger"
)

func main() {
	logger.InitLogger()
	cli.Execute()
}
