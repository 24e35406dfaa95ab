package pipeline

import (
	"sync"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
	StatusUnknown    Status = "unknown"
)

// Progress is the live processing state of one take.
type Progress struct {
	Status       Status            `json:"status"`
	Percent      int               `json:"progress"`
	CurrentStage string            `json:"current_stage,omitempty"`
	Stages       map[string]string `json:"stages"`
	Logs         []string          `json:"logs"`
}

// ProgressStore tracks per-take progress in memory. It is owned by the
// orchestrator; state does not survive a restart. Entries stay until the
// caller removes them, so completed runs remain inspectable.
type ProgressStore struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*Progress
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{entries: make(map[uuid.UUID]*Progress)}
}

func (p *ProgressStore) begin(id uuid.UUID, stageNames []string) {
	stages := make(map[string]string, len(stageNames))
	for _, name := range stageNames {
		stages[name] = string(StatusPending)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[id] = &Progress{
		Status: StatusProcessing,
		Stages: stages,
		Logs:   []string{},
	}
}

func (p *ProgressStore) startStage(id uuid.UUID, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[id]
	if !ok {
		return
	}
	e.CurrentStage = name
	e.Stages[name] = "running"
	e.Logs = append(e.Logs, "Starting "+name+"...")
}

func (p *ProgressStore) completeStage(id uuid.UUID, name string, percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[id]
	if !ok {
		return
	}
	e.Stages[name] = "completed"
	e.Percent = percent
}

func (p *ProgressStore) log(id uuid.UUID, line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.entries[id]; ok {
		e.Logs = append(e.Logs, line)
	}
}

func (p *ProgressStore) fail(id uuid.UUID, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[id]
	if !ok {
		return
	}
	e.Status = StatusError
	e.Logs = append(e.Logs, "ERROR: "+msg)
}

func (p *ProgressStore) complete(id uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[id]
	if !ok {
		return
	}
	e.Status = StatusCompleted
	e.Percent = 100
	e.CurrentStage = ""
}

// Get returns a copy of the take's progress, or an unknown sentinel if the
// take was never started.
func (p *ProgressStore) Get(id uuid.UUID) Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[id]
	if !ok {
		return Progress{Status: StatusUnknown, Stages: map[string]string{}, Logs: []string{}}
	}
	out := Progress{
		Status:       e.Status,
		Percent:      e.Percent,
		CurrentStage: e.CurrentStage,
		Stages:       make(map[string]string, len(e.Stages)),
		Logs:         append([]string{}, e.Logs...),
	}
	for k, v := range e.Stages {
		out.Stages[k] = v
	}
	return out
}

// Remove drops a take's progress entry, typically after the caller has
// observed a terminal status.
func (p *ProgressStore) Remove(id uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, id)
}
