package wm

import (
	"github.com/GriffinCanCode/AgentDesk/internal/domain/events"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/id"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// SetFileIcons replaces the file-backed desktop icons and publishes the
// new layout. Called when the desktop listing is refreshed.
func (m *Manager) SetFileIcons(items []types.FileItem) {
	m.mu.Lock()
	m.fileIcons = append([]types.FileItem(nil), items...)
	m.mu.Unlock()
	m.bus.Publish(events.IconsChanged, nil)
}

// Icons lays out the desktop icons for the current viewport: app icons in
// row-major grid order, file icons in the rows below them. The mail icon
// carries the unread badge.
func (m *Manager) Icons(badges types.BadgeCounts) []types.DesktopIcon {
	m.mu.Lock()
	vp := m.viewport
	files := append([]types.FileItem(nil), m.fileIcons...)
	m.mu.Unlock()

	area := m.desktopArea(vp)
	perRow := (area.Width - 2*m.cfg.IconOriginX) / m.cfg.IconSpacing
	if perRow < 1 {
		perRow = 1
	}

	apps := m.registry.Desktop()
	icons := make([]types.DesktopIcon, 0, len(apps)+len(files))
	for i, app := range apps {
		icon := types.DesktopIcon{
			ID:       iconID("app", app.ID),
			Kind:     types.IconApp,
			AppID:    app.ID,
			Label:    app.Title,
			Glyph:    app.Glyph,
			Color:    app.Color,
			Position: m.iconPosition(i, perRow, 0),
		}
		if app.ID == "mailbox" {
			icon.Badge = badges.MailUnread
		}
		icons = append(icons, icon)
	}

	// File icons start on the first row after the app grid.
	appRows := (len(apps) + perRow - 1) / perRow
	for i, f := range files {
		icons = append(icons, types.DesktopIcon{
			ID:       iconID("file", f.Path),
			Kind:     types.IconFile,
			Path:     f.Path,
			Label:    f.Name,
			Glyph:    fileGlyph(f),
			Position: m.iconPosition(i, perRow, appRows),
		})
	}
	return icons
}

func (m *Manager) iconPosition(index, perRow, rowOffset int) types.WindowPosition {
	row := rowOffset + index/perRow
	col := index % perRow
	return types.WindowPosition{
		Left: m.cfg.IconOriginX + col*m.cfg.IconSpacing,
		Top:  m.cfg.MenuBarHeight + m.cfg.IconOriginY + row*m.cfg.IconSpacing,
	}
}

// iconID is deterministic so the shell can diff icon sets across layouts.
func iconID(kind, key string) string {
	return id.IconPrefix + "_" + kind + "_" + key
}

func fileGlyph(f types.FileItem) string {
	if f.IsFolder() {
		return "📁"
	}
	return "📄"
}
