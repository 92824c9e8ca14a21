// Package dashboard decides what an authenticated page may show and loads it
// on behalf of the resolved user.
package dashboard

import (
	"context"
	"fmt"
	"net/http"

	"github.com/laxuman02230135/task-management/authsvc/pkg/authservice"
	"github.com/laxuman02230135/task-management/tasksvc"
	"github.com/laxuman02230135/task-management/usersvc"
)

const LoginPath = "/login"

// Props is the initial state embedded into the dashboard page.
type Props struct {
	User           usersvc.Identity `json:"user"`
	Tasks          []tasksvc.Task   `json:"tasks"`
	PendingTasks   int              `json:"pendingTasks"`
	CompletedTasks int              `json:"completedTasks"`
}

func NewProps(user usersvc.Identity, tasks []tasksvc.Task) Props {
	p := Props{User: user, Tasks: make([]tasksvc.Task, 0, len(tasks))}
	for _, t := range tasks {
		p.Tasks = append(p.Tasks, t)
		if t.Completed {
			p.CompletedTasks++
		} else {
			p.PendingTasks++
		}
	}
	return p
}

// Outcome is either a redirect or the props to render, never both.
type Outcome struct {
	location string
	props    Props
}

func Redirect(location string) Outcome {
	return Outcome{location: location}
}

func Render(p Props) Outcome {
	return Outcome{props: p}
}

func (o Outcome) Redirect() (string, bool) {
	return o.location, o.location != ""
}

func (o Outcome) Props() Props {
	return o.props
}

type TaskLister interface {
	Tasks(ctx context.Context, userID uint64) ([]tasksvc.Task, error)
}

type Loader struct {
	credential func(*http.Request) string
	sessions   authservice.SessionResolver
	tasks      TaskLister
}

func NewLoader(credential func(*http.Request) string, sessions authservice.SessionResolver, tasks TaskLister) *Loader {
	return &Loader{credential: credential, sessions: sessions, tasks: tasks}
}

// Load resolves the caller and reads their tasks. Callers without a session
// are sent to LoginPath; store failures are returned as errors.
func (l *Loader) Load(r *http.Request) (Outcome, error) {
	ctx := r.Context()

	s, err := l.sessions.Resolve(ctx, l.credential(r))
	if err != nil {
		return Outcome{}, err
	}

	user, ok := s.Identity()
	if !ok {
		return Redirect(LoginPath), nil
	}

	tasks, err := l.tasks.Tasks(ctx, user.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("load tasks: %w", err)
	}

	return Render(NewProps(user, tasks)), nil
}
