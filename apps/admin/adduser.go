package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/wakala/core"
	"github.com/trezcool/wakala/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(name, email, pwd string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: email})
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		usr = user.User{
			ID:        uuid.New().String(),
			Name:      name,
			Email:     email,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}

	usr.Name = name
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	active := true
	_, err = cli.usrRepo.UpdateUser(ctx, usr, &active)
	return err
}
