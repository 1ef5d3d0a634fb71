package conversation

import "time"

// Mode is the step an operator's multi-step flow is waiting on.
// An operator without a session is idle.
type Mode string

const (
	ModeCollectingName       Mode = "collecting_name"
	ModeCollectingLogin      Mode = "collecting_login"
	ModeCollectingPassword   Mode = "collecting_password"
	ModeAwaitingDeleteTarget Mode = "awaiting_delete_target"
)

// Draft holds the account fields collected so far.
type Draft struct {
	Name  string
	Login string
}

// Session is the in-progress flow of one operator.
type Session struct {
	Mode      Mode
	Draft     Draft
	StartedAt time.Time
}

// Reply is what the bot answers. ShowMenu asks the transport to attach the
// main keyboard.
type Reply struct {
	Text     string
	ShowMenu bool
}
