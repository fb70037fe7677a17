package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrTaskNotFound is returned when a task id does not exist for the owner.
var ErrTaskNotFound = errors.New("task not found")

// Task is the protected resource served behind the gate. Tasks are scoped to
// the username the bearer token authenticated.
type Task struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	ListByOwner(ctx context.Context, owner string) ([]Task, error)
	Create(ctx context.Context, owner, title string, completed bool) (*Task, error)
	Update(ctx context.Context, owner string, id uuid.UUID, title string, completed bool) (*Task, error)
	Delete(ctx context.Context, owner string, id uuid.UUID) error
}

// PgTaskRepository implements TaskRepository using pgxpool.
type PgTaskRepository struct {
	db *pgxpool.Pool
}

func NewPgTaskRepository(db *pgxpool.Pool) *PgTaskRepository {
	return &PgTaskRepository{db: db}
}

func (r *PgTaskRepository) ListByOwner(ctx context.Context, owner string) ([]Task, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, completed, created_at FROM tasks WHERE owner=$1 ORDER BY created_at`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tasks := make([]Task, 0)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *PgTaskRepository) Create(ctx context.Context, owner, title string, completed bool) (*Task, error) {
	const q = `INSERT INTO tasks (id, owner, title, completed) VALUES ($1,$2,$3,$4) RETURNING id, title, completed, created_at`
	var t Task
	if err := r.db.QueryRow(ctx, q, uuid.New(), owner, title, completed).Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgTaskRepository) Update(ctx context.Context, owner string, id uuid.UUID, title string, completed bool) (*Task, error) {
	const q = `UPDATE tasks SET title=$1, completed=$2 WHERE id=$3 AND owner=$4 RETURNING id, title, completed, created_at`
	var t Task
	if err := r.db.QueryRow(ctx, q, title, completed, id, owner).Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PgTaskRepository) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id=$1 AND owner=$2`, id, owner)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}
