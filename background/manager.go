package background

import (
	"errors"

	"github.com/RichardKnop/machinery/v1"
)

// DefaultQueue is the machinery queue shared by the api server and the worker
const DefaultQueue = "crimewatch_background"

// BackgroundManager is a struct for crime report background jobs
type BackgroundManager struct {
	enricher *ReportEnricher

	taskServer *machinery.Server

	worker *machinery.Worker
}

func New(enricher *ReportEnricher, taskServer *machinery.Server) *BackgroundManager {
	return &BackgroundManager{
		enricher:   enricher,
		taskServer: taskServer,
	}
}

func (m *BackgroundManager) RegisterTask(name string, taskFunc interface{}) error {
	return m.taskServer.RegisterTask(name, taskFunc)
}

// RegisterAll registers every task the worker handles
func (m *BackgroundManager) RegisterAll() error {
	return m.RegisterTask(EnrichReportTask, m.EnrichReport)
}

// Run spawn workers to execute background jobs
func (m *BackgroundManager) Run() error {
	if m.worker != nil {
		return errors.New("background worker has started")
	}
	m.worker = m.taskServer.NewWorker("crimewatch-worker", 5)
	return m.worker.Launch()
}
