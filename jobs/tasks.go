package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeLedgerIntegrity is the task type for the ledger integrity sweep.
	TaskTypeLedgerIntegrity = "ledger:integrity"
)

// LedgerIntegrityPayload narrows the sweep to one company when set.
type LedgerIntegrityPayload struct {
	CompanyID string `json:"company_id,omitempty"`
}

// NewLedgerIntegrityTask constructs an Asynq task.
func NewLedgerIntegrityTask(payload LedgerIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeLedgerIntegrity, data), nil
}
