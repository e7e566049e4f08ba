package background

import (
	"github.com/RichardKnop/machinery/v1/backends/result"
	"github.com/RichardKnop/machinery/v1/tasks"
)

// TaskSender is the part of a machinery server used to publish tasks
type TaskSender interface {
	SendTask(signature *tasks.Signature) (*result.AsyncResult, error)
}

// Enqueuer publishes background tasks on behalf of the API server
type Enqueuer struct {
	sender TaskSender
}

func NewEnqueuer(sender TaskSender) *Enqueuer {
	return &Enqueuer{
		sender: sender,
	}
}

func (q *Enqueuer) EnqueueReportEnrichment(reportID string) error {
	_, err := q.sender.SendTask(&tasks.Signature{
		Name: EnrichReportTask,
		Args: []tasks.Arg{
			{Type: "string", Value: reportID},
		},
	})
	return err
}
