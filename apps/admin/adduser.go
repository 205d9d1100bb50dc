package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/itsite/core"
	"github.com/trezcool/itsite/core/user"
)

// addUser creates an active user, or reactivates and updates the one with this email.
func (cli *commandLine) addUser(name, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)
	if err := core.Validate.Var(email, "required,email"); err != nil {
		return errors.Errorf("invalid email %q", email)
	}

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: email})
	found := err == nil
	if err != nil && err != user.ErrNotFound {
		return errors.Wrap(err, "finding user")
	}

	now := core.NowFunc()
	if !found {
		usr = user.User{Email: email, Role: user.RoleUser, CreatedAt: now}
	}
	usr.Name = name
	if isAdmin {
		usr.Role = user.RoleAdmin
	}
	usr.IsActive = true
	usr.UpdatedAt = now
	if err = usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}

	if found {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	}
	return errors.Wrap(err, "saving user")
}
