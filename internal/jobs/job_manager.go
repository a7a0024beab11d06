package jobs

import (
	"fmt"
)

// Job is a background task with a start/stop lifecycle.
type Job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	jobs []Job
}

// NewJobManager starts jobs in the given order and stops them in reverse.
// Nil jobs are skipped so optional jobs can be passed unconditionally.
func NewJobManager(jobs ...Job) *JobManager {
	jm := &JobManager{}
	for _, j := range jobs {
		if j != nil {
			jm.jobs = append(jm.jobs, j)
		}
	}
	return jm
}

// StartAll starts all scheduled jobs. If one fails to start, the jobs
// already running are stopped.
func (jm *JobManager) StartAll() error {
	for i, j := range jm.jobs {
		if err := j.Start(); err != nil {
			for k := i - 1; k >= 0; k-- {
				jm.jobs[k].Stop()
			}
			return fmt.Errorf("failed to start job %d: %w", i, err)
		}
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	for k := len(jm.jobs) - 1; k >= 0; k-- {
		jm.jobs[k].Stop()
	}
}
