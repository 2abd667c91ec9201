package licenses

import (
	"strings"
	"testing"
)

func TestNoticesListDirectModules(t *testing.T) {
	text, err := Notices()
	if err != nil {
		t.Fatalf("Notices: %v", err)
	}
	for _, mod := range []string{"fyne.io/fyne/v2", "github.com/spf13/cobra", "github.com/ncruces/zenity", "golang.org/x/image"} {
		if !strings.Contains(text, mod) {
			t.Fatalf("notices missing %s", mod)
		}
	}
}

func TestNoticesEmpty(t *testing.T) {
	prev := noticesText
	noticesText = "  \n"
	t.Cleanup(func() { noticesText = prev })
	if _, err := Notices(); err == nil {
		t.Fatal("expected error for empty notices")
	}
}
