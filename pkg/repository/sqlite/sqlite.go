package sqlite

import (
	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"

	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	body TEXT NOT NULL,
	sender_id TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	deleted_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tasks_sender ON tasks(sender_id, id);

CREATE TABLE IF NOT EXISTS task_assignments (
	task_id INTEGER NOT NULL REFERENCES tasks(id),
	recipient_id TEXT NOT NULL,
	status TEXT NOT NULL,
	acknowledged_at TIMESTAMP,
	archived_at TIMESTAMP,
	deleted_at TIMESTAMP,
	created_at TIMESTAMP NOT NULL,
	PRIMARY KEY (task_id, recipient_id)
);

CREATE INDEX IF NOT EXISTS idx_assignments_recipient_status
	ON task_assignments(recipient_id, status);

CREATE TABLE IF NOT EXISTS members (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	role TEXT NOT NULL,
	unit_id TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS org_units (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	parent_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	action TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	actor TEXT NOT NULL,
	before_json TEXT,
	after_json TEXT,
	meta_json TEXT,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_log(created_at);

CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	secret TEXT NOT NULL,
	member_id TEXT NOT NULL,
	expires_at TIMESTAMP NOT NULL,
	created_at TIMESTAMP NOT NULL
);
`

// SQLite is a relational repository backend on a local SQLite file.
type SQLite struct {
	db         *sqlx.DB
	task       *taskRepository
	assignment *assignmentRepository
	member     *memberRepository
	unit       *unitRepository
	audit      *auditRepository
}

var _ interfaces.Repository = &SQLite{}

// New opens (or creates) a SQLite database at path and applies the
// schema. The caller is responsible for calling Close().
func New(path string) (*SQLite, error) {
	// Transactions take the write lock up front (BEGIN IMMEDIATE) so
	// the dispatch and retraction transactions never upgrade mid-way.
	db, err := sqlx.Open("sqlite", "file:"+path+"?_txlock=immediate")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}

	// Single writer; avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to enable WAL mode")
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to enable foreign keys")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to apply schema")
	}

	return &SQLite{
		db:         db,
		task:       &taskRepository{db: db},
		assignment: &assignmentRepository{db: db},
		member:     &memberRepository{db: db},
		unit:       &unitRepository{db: db},
		audit:      &auditRepository{db: db},
	}, nil
}

func (s *SQLite) Task() interfaces.TaskRepository {
	return s.task
}

func (s *SQLite) Assignment() interfaces.AssignmentRepository {
	return s.assignment
}

func (s *SQLite) Member() interfaces.MemberRepository {
	return s.member
}

func (s *SQLite) Unit() interfaces.UnitRepository {
	return s.unit
}

func (s *SQLite) Audit() interfaces.AuditRepository {
	return s.audit
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
