package notice

import (
	"testing"

	"github.com/llehouerou/ipv/internal/ui/action"
	"github.com/llehouerou/ipv/internal/ui/testutil"
)

func newTestNotice(kind Kind, title, message string) (*Model, *testutil.PopupHarness) {
	m := New()
	m.SetSize(80, 24)
	m.Show(kind, title, message, "ctx")
	return &m, testutil.NewPopupHarness(&m)
}

func TestDismissKeys(t *testing.T) {
	for _, key := range []string{"enter", "esc", " ", "q"} {
		t.Run(key, func(t *testing.T) {
			m, h := newTestNotice(Error, "Error", "Error processing image: invalid rectangle")

			cmd := h.SendKey(key)

			if m.Active() {
				t.Error("notice should be closed")
			}
			msg, ok := testutil.ExecuteCmd(cmd).(action.Msg)
			if !ok {
				t.Fatalf("expected action.Msg, got %T", testutil.ExecuteCmd(cmd))
			}
			d, ok := msg.Action.(Dismissed)
			if !ok {
				t.Fatalf("expected Dismissed, got %T", msg.Action)
			}
			if d.Context != "ctx" {
				t.Errorf("Context = %v", d.Context)
			}
		})
	}
}

func TestOtherKeysAreSwallowed(t *testing.T) {
	m, h := newTestNotice(Info, "Saved", "Images saved successfully!")

	if cmd := h.SendKey("r"); cmd != nil {
		t.Error("unexpected command")
	}
	if !m.Active() {
		t.Error("notice should stay open")
	}
}

func TestView(t *testing.T) {
	_, h := newTestNotice(Error, "Error", "Please upload an image and draw a rectangle first.")

	if !h.ViewContains("Please upload an image") {
		t.Errorf("view missing message:\n%s", h.View())
	}
	if !h.ViewContains("Enter/Esc") {
		t.Error("view missing hint")
	}
}

func TestShowSanitizesMessage(t *testing.T) {
	m, _ := newTestNotice(Error, "Error", "bad\x1b[2Jname")
	if m.Message() != "bad[2Jname" {
		t.Errorf("Message() = %q", m.Message())
	}
}

func TestInactiveViewIsEmpty(t *testing.T) {
	m := New()
	if m.View() != "" {
		t.Error("inactive notice should render nothing")
	}
}

func TestMultilineMessageKeepsLines(t *testing.T) {
	m, _ := newTestNotice(Info, "History", "first save\nsecond save")
	view := testutil.StripANSI(m.View())
	if !testutil.ContainsLine(view, "first save") || !testutil.ContainsLine(view, "second save") {
		t.Errorf("lines merged:\n%s", view)
	}
	if testutil.ContainsLine(view, "first save second save") {
		t.Error("lines should not be joined")
	}
}
