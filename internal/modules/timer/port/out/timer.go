package out

import "context"

// Notifier shows messages to the user. Notice is the transient in-app
// message; System is a desktop notification.
type Notifier interface {
	Notice(ctx context.Context, message string) error
	System(ctx context.Context, title, body string) error
}

type SoundPlayer interface {
	PlayOnce(ctx context.Context) error
	StartLoop(ctx context.Context) error
	StopLoop(ctx context.Context) error
}

// NoteLocator resolves the note currently open in the vault as link text,
// or "" when none is open.
type NoteLocator interface {
	ActiveNote(ctx context.Context) (string, error)
}
