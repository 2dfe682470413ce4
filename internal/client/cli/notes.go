package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

const timeLayout = "2006-01-02 15:04"

func (a *App) printNote(i int, n *models.Note) {
	fmt.Fprintf(a.out, "[%d] %s  (%s, updated %s)\n", i, n.Title, n.ID, n.UpdatedAt.Local().Format(timeLayout))
	for _, line := range strings.Split(n.Content, "\n") {
		fmt.Fprintf(a.out, "    %s\n", line)
	}
}

// List fetches and prints the user's notes. The listing is remembered so
// edit and delete can refer to notes by position.
func (a *App) List(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	notes, err := a.noteService.List(ctx, a.dataKey)
	if err != nil {
		return err
	}
	a.notes = notes

	if len(notes) == 0 {
		fmt.Fprintln(a.out, "No notes yet")
		return nil
	}
	for i, n := range notes {
		a.printNote(i+1, n)
	}
	return nil
}

// Add prompts for a title and content and stores the note encrypted.
func (a *App) Add(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	n, err := a.noteService.Add(ctx, a.dataKey, title, content)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Note saved (%s)\n", n.ID)
	return nil
}

// Edit replaces a note's title and content. Empty input keeps the current
// value when the note is known from the last listing.
func (a *App) Edit(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	ref, err := getSimpleText(a.reader, "Note number or id", a.out)
	if err != nil {
		return err
	}
	id, current := a.resolveNoteID(ref)

	title, err := getSimpleText(a.reader, "New title (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "New content (empty keeps current)", a.out)
	if err != nil {
		return err
	}

	if current != nil && current.Title != models.EncryptedPlaceholder {
		if title == "" {
			title = current.Title
		}
		if content == "" && current.Content != models.EncryptedPlaceholder {
			content = current.Content
		}
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if _, err := a.noteService.Edit(ctx, a.dataKey, id, title, content); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Note updated")
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	ref, err := getSimpleText(a.reader, "Note number or id", a.out)
	if err != nil {
		return err
	}
	id, _ := a.resolveNoteID(ref)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.noteService.Delete(ctx, id); err != nil {
		return err
	}

	a.notes = nil
	fmt.Fprintln(a.out, "Note deleted")
	return nil
}

func (a *App) printExport(e *models.Export) {
	fmt.Fprintf(a.out, "Export %s: %d notes, key %s\n", e.ID, e.NoteCount, e.Key)
	if e.URL != "" {
		fmt.Fprintf(a.out, "Download (until %s):\n%s\n", e.ExpiresAt.Local().Format(timeLayout), e.URL)
	}
}

// Export uploads the user's encrypted notes and prints a download link.
func (a *App) Export(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	e, err := a.noteService.Export(ctx)
	if err != nil {
		return err
	}
	a.printExport(e)
	return nil
}

func (a *App) Exports(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	exports, err := a.noteService.ListExports(ctx)
	if err != nil {
		return err
	}
	if len(exports) == 0 {
		fmt.Fprintln(a.out, "No exports yet")
		return nil
	}
	for _, e := range exports {
		fmt.Fprintf(a.out, "%s  %s  %d notes\n", e.ID, e.CreatedAt.Local().Format(timeLayout), e.NoteCount)
	}
	return nil
}

// Link prints a fresh download link for an earlier export.
func (a *App) Link(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	id, err := getSimpleText(a.reader, "Export id", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	e, err := a.noteService.ExportLink(ctx, id)
	if err != nil {
		return err
	}
	a.printExport(e)
	return nil
}
