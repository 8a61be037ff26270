package cli

import (
	"context"
	"log"
	"os"

	"github.com/flashdeck/flashdeck/internal/client/dashboard"
)

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.auth.Login(ctx, email, password); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	log.Println("Login successful")

	a.board.Load(ctx)
	a.waitFor(func(s dashboard.Snapshot) bool { return !s.CardsLoading }, a.config.RequestTimeout)
	return nil
}

func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.auth.Register(ctx, email, password); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	log.Println("Registration successful, you can now log in")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(); err != nil {
		log.Printf("Logout error: %s", err.Error())
		return err
	}
	a.board.Reset()
	log.Println("Logged out")
	return nil
}
