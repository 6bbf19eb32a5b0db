package main

import (
	"github.com/promptdeck/backend/internal/server"
	"github.com/promptdeck/backend/internal/util"
	"github.com/promptdeck/backend/pkg/logger"
	"github.com/promptdeck/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	logger.Init(console.New(console.Params{
		Debug:  util.GetEnvBool("DEBUG", false),
		Prefix: "server",
	}))

	server.Init()
}
