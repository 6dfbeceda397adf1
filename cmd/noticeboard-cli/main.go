package main

import (
	"context"

	"noticeboard-backend/cmd/noticeboard-cli/commands"
	"noticeboard-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "noticeboard-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
