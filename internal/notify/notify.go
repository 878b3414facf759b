package notify

import (
	"fmt"
	"log"
	"os/exec"
	"sync"
)

type Permission int

const (
	PermissionDefault Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	}
	return "default"
}

// Alerter shows a visible notification to the user.
type Alerter interface {
	Alert(title string) error
}

// Chimer plays the audible reminder cue.
type Chimer interface {
	Chime() error
}

// Notifier delivers best-effort reminders: a visible alert when permission
// was granted, plus an audio cue that is never permission-gated. Failures
// are logged and swallowed, never returned to the caller.
type Notifier struct {
	mu         sync.Mutex
	permission Permission
	alerter    Alerter
	chimer     Chimer
}

func New(alerter Alerter, chimer Chimer) *Notifier {
	return &Notifier{
		alerter: alerter,
		chimer:  chimer,
	}
}

// RequestPermission probes the alert mechanism once at startup. A denied
// result degrades Notify to chime-only; it is not an error.
func (n *Notifier) RequestPermission() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.permission != PermissionDefault {
		return n.permission
	}

	if n.alerter == nil {
		n.permission = PermissionDenied
	} else if err := n.alerter.Alert("Reminders enabled"); err != nil {
		log.Printf("notification permission denied: %v", err)
		n.permission = PermissionDenied
	} else {
		n.permission = PermissionGranted
	}

	return n.permission
}

func (n *Notifier) Permission() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.permission
}

// Notify fires the reminder for a task title. Fire-and-forget: the chime is
// always attempted, the alert only when permission was granted.
func (n *Notifier) Notify(title string) {
	n.mu.Lock()
	permission := n.permission
	n.mu.Unlock()

	if n.chimer != nil {
		if err := n.chimer.Chime(); err != nil {
			log.Printf("reminder chime failed: %v", err)
		}
	}

	if permission != PermissionGranted {
		return
	}

	if err := n.alerter.Alert(fmt.Sprintf("Time for %s Task", title)); err != nil {
		log.Printf("reminder alert failed for %q: %v", title, err)
	}
}

// ExecAlerter sends desktop notifications through an external command such
// as notify-send.
type ExecAlerter struct {
	Command string
}

func (a *ExecAlerter) Alert(title string) error {
	if a.Command == "" {
		return fmt.Errorf("no alert command configured")
	}
	if _, err := exec.LookPath(a.Command); err != nil {
		return fmt.Errorf("alert command unavailable: %w", err)
	}
	return exec.Command(a.Command, title).Run()
}

// ExecChimer plays the reminder sound through an external player command.
type ExecChimer struct {
	Command   string
	SoundFile string
}

func (c *ExecChimer) Chime() error {
	if c.Command == "" || c.SoundFile == "" {
		return fmt.Errorf("no chime command configured")
	}
	if _, err := exec.LookPath(c.Command); err != nil {
		return fmt.Errorf("chime command unavailable: %w", err)
	}
	return exec.Command(c.Command, c.SoundFile).Run()
}
