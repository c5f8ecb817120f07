package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/memoria/internal/client/forms"
	"github.com/dmitrijs2005/memoria/internal/client/models"
)

var errLoginRequired = errors.New("please log in first")

// List prints every memorial, most recent first.
func (a *App) List(ctx context.Context) error {
	ms, err := a.memorials.GetAllMemorials(ctx)
	if err != nil {
		a.logger.Error(ctx, "error loading memorials", "error", err)
		return fmt.Errorf("memorials could not be loaded: %w", err)
	}
	printMemorials(ms, "No memorials yet.")
	return nil
}

// Mine prints the memorials of the signed-in user.
func (a *App) Mine(ctx context.Context) error {
	u := a.session.Snapshot().User
	if u == nil {
		return errLoginRequired
	}

	ms, err := a.memorials.GetUserMemorials(ctx, u.ID)
	if err != nil {
		a.logger.Error(ctx, "error loading user memorials", "error", err)
		return fmt.Errorf("memorials could not be loaded: %w", err)
	}
	printMemorials(ms, "You have not created any memorials yet.")
	return nil
}

// Show prints one memorial. Memorials owned by the signed-in user are marked.
func (a *App) Show(ctx context.Context, id string) error {
	m, err := a.memorials.GetMemorialByID(ctx, id)
	if err != nil {
		a.logger.Error(ctx, "error loading memorial", "id", id, "error", err)
		return fmt.Errorf("memorial could not be loaded: %w", err)
	}
	if m == nil {
		printlnFn("Memorial not found.")
		return nil
	}

	title := fmt.Sprintf("%s (%d - %d)", m.Name, m.BirthYear, m.DeathYear)
	if u := a.session.Snapshot().User; u != nil && a.memorials.UserOwnsMemorial(ctx, m.ID, u.ID) {
		title += " [yours]"
	}
	printlnFn(title)
	if m.Description != "" {
		printlnFn(m.Description)
	}
	if m.ProfileImage != "" {
		printlnFn("Image:", m.ProfileImage)
	}
	printlnFn("Created:", m.CreatedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

// Create walks through the create form and an optional image path. A failed
// image upload is reported as a warning and the memorial is created anyway.
func (a *App) Create(ctx context.Context) error {
	u := a.session.Snapshot().User
	if u == nil {
		printlnFn("Please log in to create a memorial.")
		return nil
	}

	var f forms.MemorialForm
	var err error
	if f.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if f.BirthYear, err = getSimpleText(a.reader, "Birth year", a.out); err != nil {
		return err
	}
	if f.DeathYear, err = getSimpleText(a.reader, "Death year", a.out); err != nil {
		return err
	}
	if f.Description, err = getMultiline(a.reader, "Description (optional)", a.out); err != nil {
		return err
	}
	imagePath, err := getSimpleText(a.reader, "Image file (optional)", a.out)
	if err != nil {
		return err
	}

	draft, err := forms.ValidateMemorial(f, a.now())
	if err != nil {
		return err
	}

	res, err := a.memorials.CreateWithImage(ctx, draft, imagePath, u.ID)
	if err != nil {
		a.logger.Error(ctx, "error creating memorial", "error", err)
		return errors.New("the memorial could not be created, please try again")
	}
	if res.ImageWarning != nil {
		printlnFn("Warning: the image could not be uploaded, the memorial is created without it.")
	}

	printlnFn("Memorial created:", res.Memorial.ID)
	return nil
}

func printMemorials(ms []*models.Memorial, empty string) {
	if len(ms) == 0 {
		printlnFn(empty)
		return
	}
	for _, m := range ms {
		printlnFn(fmt.Sprintf("%s  %s (%d - %d)", m.ID, m.Name, m.BirthYear, m.DeathYear))
	}
}
