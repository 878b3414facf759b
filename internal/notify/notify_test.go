package notify

import (
	"errors"
	"testing"
)

type fakeAlerter struct {
	calls []string
	err   error
}

func (a *fakeAlerter) Alert(title string) error {
	a.calls = append(a.calls, title)
	return a.err
}

type fakeChimer struct {
	calls int
	err   error
}

func (c *fakeChimer) Chime() error {
	c.calls++
	return c.err
}

func TestRequestPermissionGranted(t *testing.T) {
	alerter := &fakeAlerter{}
	n := New(alerter, &fakeChimer{})

	if got := n.RequestPermission(); got != PermissionGranted {
		t.Errorf("Expected permission granted, got %s", got)
	}

	if len(alerter.calls) != 1 {
		t.Errorf("Expected one probe alert, got %d", len(alerter.calls))
	}
}

func TestRequestPermissionDenied(t *testing.T) {
	alerter := &fakeAlerter{err: errors.New("no display")}
	n := New(alerter, &fakeChimer{})

	if got := n.RequestPermission(); got != PermissionDenied {
		t.Errorf("Expected permission denied, got %s", got)
	}
}

func TestRequestPermissionAskedOnce(t *testing.T) {
	alerter := &fakeAlerter{}
	n := New(alerter, &fakeChimer{})

	n.RequestPermission()
	n.RequestPermission()

	if len(alerter.calls) != 1 {
		t.Errorf("Expected permission probe to run once, got %d calls", len(alerter.calls))
	}
}

func TestNotifyWithPermission(t *testing.T) {
	alerter := &fakeAlerter{}
	chimer := &fakeChimer{}
	n := New(alerter, chimer)
	n.RequestPermission()

	n.Notify("Pay bills")

	if chimer.calls != 1 {
		t.Errorf("Expected 1 chime, got %d", chimer.calls)
	}

	// First call was the permission probe.
	if len(alerter.calls) != 2 {
		t.Fatalf("Expected 2 alerts (probe + reminder), got %d", len(alerter.calls))
	}
	if alerter.calls[1] != "Time for Pay bills Task" {
		t.Errorf("Unexpected alert text: %q", alerter.calls[1])
	}
}

func TestNotifyDeniedDegradesToChime(t *testing.T) {
	alerter := &fakeAlerter{err: errors.New("no display")}
	chimer := &fakeChimer{}
	n := New(alerter, chimer)
	n.RequestPermission()

	n.Notify("Pay bills")

	if chimer.calls != 1 {
		t.Errorf("Expected chime despite denied permission, got %d", chimer.calls)
	}

	// Only the failed probe ever reached the alerter.
	if len(alerter.calls) != 1 {
		t.Errorf("Expected no reminder alert after denial, got %d alerts", len(alerter.calls))
	}
}

func TestNotifySwallowsFailures(t *testing.T) {
	alerter := &fakeAlerter{}
	chimer := &fakeChimer{err: errors.New("sound not loaded")}
	n := New(alerter, chimer)
	n.RequestPermission()

	// Must not panic or propagate anything.
	n.Notify("Pay bills")

	if chimer.calls != 1 {
		t.Errorf("Expected chime attempt, got %d", chimer.calls)
	}
}
