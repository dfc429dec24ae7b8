package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskWelcome is the job type name stored in Redis.
	TaskWelcome = "email:welcome_student"
)

// WelcomeEmailPayload is the JSON payload of the welcome email task.
type WelcomeEmailPayload struct {
	To     string `json:"to"`
	Prenom string `json:"prenom"`
	Nom    string `json:"nom"`
}

// NewWelcomeEmailTask builds the welcome email task: up to 3 retries on the
// default queue, 30 seconds per attempt.
func NewWelcomeEmailTask(to, prenom, nom string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomeEmailPayload{
		To:     to,
		Prenom: prenom,
		Nom:    nom,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
