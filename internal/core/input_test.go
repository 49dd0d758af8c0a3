package core

import "testing"

func TestInputFrameKeepsOrder(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionRelease)
	f.Set(ActionNone)
	f.Set(ActionJump)

	if len(f.Actions) != 2 {
		t.Fatalf("len(Actions) = %d, expected 2 (ActionNone is dropped)", len(f.Actions))
	}
	if f.Actions[0] != ActionRelease || f.Actions[1] != ActionJump {
		t.Errorf("Actions = %v, expected [Release Jump]", f.Actions)
	}
	f.Clear()
	if len(f.Actions) != 0 {
		t.Error("Clear() should empty the frame")
	}
}

func TestActionString(t *testing.T) {
	if ActionShare.String() != "Share" {
		t.Errorf("ActionShare.String() = %q", ActionShare.String())
	}
	if Action(99).String() != "Unknown" {
		t.Errorf("Action(99).String() = %q", Action(99).String())
	}
}
