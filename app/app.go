package app

import (
	"time"

	"promptdeck/app/services/editsession"
	"promptdeck/app/services/executor"
	"promptdeck/domain/endpoint"
	"promptdeck/domain/task"
	"promptdeck/internal/repository/jsonfile"
)

type Config struct {
	DataDir        string
	AutosaveDelay  time.Duration
	ExecuteTimeout time.Duration
}

type Container struct {
	Tasks     task.Repository
	Endpoints endpoint.Repository
	Executor  *executor.Executor
	Sessions  *editsession.Manager
}

func NewContainer(cfg Config) *Container {
	// Initialize repositories
	taskRepo := jsonfile.NewTaskRepository(cfg.DataDir)
	endpointRepo := jsonfile.NewEndpointRepository(cfg.DataDir)

	// Initialize services
	exec := executor.New(taskRepo, cfg.ExecuteTimeout)
	sessions := editsession.NewManager(taskRepo, cfg.AutosaveDelay)

	return &Container{
		Tasks:     taskRepo,
		Endpoints: endpointRepo,
		Executor:  exec,
		Sessions:  sessions,
	}
}

// Shutdown flushes any staged edits so nothing typed is lost on exit.
func (c *Container) Shutdown() error {
	return c.Sessions.FlushAll()
}
