package main

import (
	"errors"
	"fmt"

	"github.com/autoerp/server/api/rest"
	"github.com/autoerp/server/db"
	"github.com/autoerp/server/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCreateUserCmd(load configLoader) *cobra.Command {
	var (
		username    string
		password    string
		admin       bool
		employee    bool
		permissions []string
	)
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a login, e.g. the first administrator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			gdb, err := openDatabase(cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			u := &model.User{Username: username, IsAdmin: admin, IsEmployee: employee, IsActive: true}
			if err := rest.CreateUser(gdb.WithContext(cmd.Context()), u, password, permissions, cfg.Security.BcryptCost); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			logger.Info("user created",
				zap.Int64("user_id", u.ID),
				zap.String("username", u.Username),
				zap.Bool("is_admin", u.IsAdmin),
				zap.Strings("permissions", u.PermissionNames()),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant administrator rights")
	cmd.Flags().BoolVar(&employee, "employee", false, "mark the user as shop staff")
	cmd.Flags().StringSliceVar(&permissions, "permission", nil, "permission name, repeatable")
	return cmd
}
