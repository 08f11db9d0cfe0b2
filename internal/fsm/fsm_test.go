package fsm

import "testing"

func TestFSMTransitionsAndCallbacks(t *testing.T) {
	var entered, left []string

	f := NewFSM("created", []EventTransition{
		{Name: "start", Src: []string{"created"}, Dst: "running"},
		{Name: "fail", Src: []string{"running"}, Dst: "restarting"},
		{Name: "restarted", Src: []string{"restarting"}, Dst: "running"},
		{Name: "stop", Src: []string{"running", "restarting"}, Dst: "stopping"},
	}, map[string]Callback{
		"enter_running": func(e *Event) { entered = append(entered, e.Dst) },
		"leave_running": func(e *Event) { left = append(left, e.Src) },
	})

	if !f.Event("start") {
		t.Fatal("expected start to succeed from created")
	}
	if f.CurrentState() != "running" {
		t.Fatalf("state = %s, want running", f.CurrentState())
	}

	if f.Event("restarted") {
		t.Fatal("restarted should not fire from running")
	}

	if !f.Event("fail") {
		t.Fatal("expected fail to succeed from running")
	}
	if !f.Event("restarted") {
		t.Fatal("expected restarted to succeed from restarting")
	}

	if len(entered) != 2 || entered[0] != "running" || entered[1] != "running" {
		t.Fatalf("entered = %v, want [running running]", entered)
	}
	if len(left) != 1 || left[0] != "running" {
		t.Fatalf("left = %v, want [running]", left)
	}
}

func TestFSMCanEvent(t *testing.T) {
	f := NewFSM("stopped", []EventTransition{
		{Name: "start", Src: []string{"stopped"}, Dst: "running"},
	}, nil)

	if !f.CanEvent("start") {
		t.Fatal("expected start to be possible from stopped")
	}
	if f.CanEvent("stop") {
		t.Fatal("did not expect stop to be possible from stopped")
	}
}
