package memory

import (
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	task       *taskRepository
	assignment *assignmentRepository
	member     *memberRepository
	unit       *unitRepository
	audit      *auditRepository
	sessions   *sessionStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	assignmentRepo := newAssignmentRepository()
	taskRepo := newTaskRepository(assignmentRepo)

	return &Memory{
		task:       taskRepo,
		assignment: assignmentRepo,
		member:     newMemberRepository(),
		unit:       newUnitRepository(),
		audit:      newAuditRepository(),
		sessions:   newSessionStore(),
	}
}

func (m *Memory) Task() interfaces.TaskRepository {
	return m.task
}

func (m *Memory) Assignment() interfaces.AssignmentRepository {
	return m.assignment
}

func (m *Memory) Member() interfaces.MemberRepository {
	return m.member
}

func (m *Memory) Unit() interfaces.UnitRepository {
	return m.unit
}

func (m *Memory) Audit() interfaces.AuditRepository {
	return m.audit
}

func (m *Memory) Close() error {
	return nil
}
