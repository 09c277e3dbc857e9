// Maintenance: rooms accumulate wear from a spatial noise field,
// spawning repair tasks that engineering crew work off.
package engine

import (
	"log/slog"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/shipsim/internal/entropy"
	"github.com/talgya/shipsim/internal/people"
	"github.com/talgya/shipsim/internal/ship"
)

const (
	// Sweep cadence in sim-hours, and the wear level that opens a task.
	maintenanceSweepHours = 2.0
	wearThreshold         = 0.7

	// Base wear accrual per sim-hour before per-room factors.
	baseWearPerHour = 0.01

	// Residual wear after a completed repair.
	repairedWear = 0.1

	// Sim-hours of work to close a task.
	repairHours = 1.0

	// MaxPendingTasks caps the unassigned task backlog. Sweeps spawn
	// nothing while the backlog is full.
	MaxPendingTasks = 32
)

// TaskState tracks a maintenance task's lifecycle.
type TaskState uint8

const (
	TaskPending TaskState = iota
	TaskInProgress
)

// Task is one outstanding repair job.
type Task struct {
	ID       int             `json:"id"`
	RoomID   int             `json:"room_id"`
	Priority float64         `json:"priority"` // Wear level at creation
	State    TaskState       `json:"state"`
	Assignee people.PersonID `json:"assignee"` // Valid while in progress
	Progress float64         `json:"progress"` // Sim-hours of work done
	Created  float64         `json:"created"`  // Sim-hours timestamp
}

type maintenanceState struct {
	wear     []float64 // Per-room wear in [0, 1]
	wearRate []float64 // Per-room accrual per sim-hour
	tasks    []*Task
	nextID   int
	sweepAcc float64
}

// initMaintenance seeds the per-room wear rates from a noise field over
// room centers. Machinery spaces wear roughly twice as fast.
func (s *Simulation) initMaintenance(sh *ship.Ship) {
	noise := opensimplex.NewNormalized(sh.Seed + entropy.StreamWear)

	s.maint = maintenanceState{
		wear:     make([]float64, sh.RoomCount()),
		wearRate: make([]float64, sh.RoomCount()),
	}
	for i := range sh.Rooms {
		r := &sh.Rooms[i]
		rough := 0.5 + noise.Eval2(r.CenterX()*0.05, r.CenterY()*0.05+float64(r.Deck)*3)
		factor := 1.0
		switch {
		case ship.IsMachinery(r.Type):
			factor = 2.0
		case r.Type == ship.RoomCorridor:
			factor = 0.5
		}
		s.maint.wearRate[i] = rough * factor * baseWearPerHour
	}
}

// PendingTaskCount returns the number of unassigned maintenance tasks.
func (s *Simulation) PendingTaskCount() int {
	count := 0
	for _, t := range s.maint.tasks {
		if t.State == TaskPending {
			count++
		}
	}
	return count
}

// Tasks returns the current task list. Callers must not mutate it.
func (s *Simulation) Tasks() []*Task { return s.maint.tasks }

func (s *Simulation) updateMaintenance(hours float64) {
	for i := range s.maint.wear {
		s.maint.wear[i] += s.maint.wearRate[i] * hours
		if s.maint.wear[i] > 1 {
			s.maint.wear[i] = 1
		}
	}

	s.maint.sweepAcc += hours
	if s.maint.sweepAcc < maintenanceSweepHours {
		return
	}
	s.maint.sweepAcc = 0

	s.spawnTasks()
	s.assignTasks()
}

func (s *Simulation) spawnTasks() {
	pending := s.PendingTaskCount()
	for i, wear := range s.maint.wear {
		if wear < wearThreshold || pending >= MaxPendingTasks {
			continue
		}
		if s.hasOpenTask(i) {
			continue
		}
		t := &Task{
			ID:       s.maint.nextID,
			RoomID:   i,
			Priority: wear,
			Created:  s.clock.SimHours(),
		}
		s.maint.nextID++
		s.maint.tasks = append(s.maint.tasks, t)
		pending++
		s.recordEvent("maintenance", "maintenance required in %s (wear %.2f)",
			s.Ship.Rooms[i].Name, wear)
	}
}

func (s *Simulation) hasOpenTask(roomID int) bool {
	for _, t := range s.maint.tasks {
		if t.RoomID == roomID {
			return true
		}
	}
	return false
}

// assignTasks hands the highest-priority pending tasks to idle
// engineering crew.
func (s *Simulation) assignTasks() {
	for _, t := range s.highestPriorityPending() {
		worker := s.idleEngineer()
		if worker == nil {
			return
		}
		t.State = TaskInProgress
		t.Assignee = worker.ID

		worker.Activity = people.ActivityRepairing
		worker.TargetRoom = t.RoomID
		worker.State = people.StateSeeking
		s.beginSeek(worker)

		// Seek failure idles the worker without touching the task.
		// Put the task back in the queue rather than stranding it.
		if worker.State == people.StateIdle {
			t.State = TaskPending
			t.Assignee = -1
		}
	}
}

func (s *Simulation) highestPriorityPending() []*Task {
	var pending []*Task
	for _, t := range s.maint.tasks {
		if t.State == TaskPending {
			pending = append(pending, t)
		}
	}
	// Insertion sort, priority descending. Task lists stay small.
	for i := 1; i < len(pending); i++ {
		for j := i; j > 0 && pending[j].Priority > pending[j-1].Priority; j-- {
			pending[j], pending[j-1] = pending[j-1], pending[j]
		}
	}
	return pending
}

func (s *Simulation) idleEngineer() *people.Person {
	for _, p := range s.People {
		if p.Role != people.RoleCrew || p.Department != people.DeptEngineering {
			continue
		}
		if p.State != people.StateIdle || p.Needs.AnyCritical() {
			continue
		}
		return p
	}
	return nil
}

// progressRepair advances the task assigned to the worker, completing
// it after enough work and resetting the room's wear.
func (s *Simulation) progressRepair(p *people.Person, hours float64) {
	task := s.taskByAssignee(p.ID)
	if task == nil {
		s.finishActivity(p)
		return
	}
	task.Progress += hours
	if task.Progress < repairHours {
		return
	}

	s.maint.wear[task.RoomID] = repairedWear
	s.removeTask(task.ID)
	s.recordEvent("maintenance", "%s completed repairs in %s",
		p.Name, s.Ship.Rooms[task.RoomID].Name)
	slog.Debug("repair complete", "room", s.Ship.Rooms[task.RoomID].Name, "worker", p.Name)
	s.finishActivity(p)
}

func (s *Simulation) taskByAssignee(id people.PersonID) *Task {
	for _, t := range s.maint.tasks {
		if t.State == TaskInProgress && t.Assignee == id {
			return t
		}
	}
	return nil
}

func (s *Simulation) removeTask(id int) {
	for i, t := range s.maint.tasks {
		if t.ID == id {
			s.maint.tasks = append(s.maint.tasks[:i], s.maint.tasks[i+1:]...)
			return
		}
	}
}
