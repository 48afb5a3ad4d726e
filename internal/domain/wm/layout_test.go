package wm

import (
	"testing"

	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

func TestIconLayoutRowMajor(t *testing.T) {
	m := newTestManager(t)
	m.SetViewport(Viewport{Width: 1000, Height: 800})

	icons := m.Icons(types.BadgeCounts{})
	if len(icons) == 0 {
		t.Fatal("expected app icons")
	}

	// Desktop area 620 wide, origin 50, spacing 100: five icons per row.
	perRow := (620 - 100) / 100
	for i, icon := range icons {
		wantLeft := 50 + (i%perRow)*100
		wantTop := 28 + 50 + (i/perRow)*100
		if icon.Position.Left != wantLeft || icon.Position.Top != wantTop {
			t.Errorf("icon %d at (%d,%d), want (%d,%d)",
				i, icon.Position.Left, icon.Position.Top, wantLeft, wantTop)
		}
	}
}

func TestFileIconsBelowAppRows(t *testing.T) {
	m := newTestManager(t)
	m.SetViewport(Viewport{Width: 1000, Height: 800})

	m.SetFileIcons([]types.FileItem{
		{Name: "notes.txt", Path: "/notes.txt", Type: types.FileTypeFile},
		{Name: "projects", Path: "/projects", Type: types.FileTypeFolder},
	})

	icons := m.Icons(types.BadgeCounts{})
	var apps, files []types.DesktopIcon
	for _, icon := range icons {
		if icon.Kind == types.IconFile {
			files = append(files, icon)
		} else {
			apps = append(apps, icon)
		}
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 file icons, got %d", len(files))
	}

	maxAppTop := 0
	for _, a := range apps {
		if a.Position.Top > maxAppTop {
			maxAppTop = a.Position.Top
		}
	}
	for _, f := range files {
		if f.Position.Top <= maxAppTop {
			t.Errorf("file icon %s at top %d overlaps app rows (max app top %d)",
				f.Label, f.Position.Top, maxAppTop)
		}
	}
	if files[0].Glyph != "📄" || files[1].Glyph != "📁" {
		t.Error("file icon glyphs should reflect item type")
	}
}

func TestIconRowMatchesDesktopApps(t *testing.T) {
	m := newTestManager(t)

	icons := m.Icons(types.BadgeCounts{})
	if len(icons) != 8 {
		t.Fatalf("expected 8 app icons, got %d", len(icons))
	}
	if icons[0].AppID != "file_manager" || icons[7].AppID != "scheduled_processes" {
		t.Errorf("icon row out of order: first %s, last %s", icons[0].AppID, icons[7].AppID)
	}
	for _, icon := range icons {
		if icon.AppID == "settings" || icon.AppID == "default" {
			t.Errorf("app %s should not have a desktop icon", icon.AppID)
		}
	}
}

func TestMailIconCarriesBadge(t *testing.T) {
	m := newTestManager(t)

	icons := m.Icons(types.BadgeCounts{MailUnread: 3})
	for _, icon := range icons {
		if icon.AppID == "mailbox" {
			if icon.Badge != 3 {
				t.Errorf("mail badge %d, want 3", icon.Badge)
			}
			return
		}
	}
	t.Fatal("mail icon not found")
}
