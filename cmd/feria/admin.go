package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uninorte/feria-gamer/internal/auth"
	"github.com/uninorte/feria-gamer/internal/config"
	"github.com/uninorte/feria-gamer/internal/db"
	"github.com/uninorte/feria-gamer/internal/logger"
	"github.com/uninorte/feria-gamer/internal/server"
	"github.com/uninorte/feria-gamer/internal/validation"
)

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

type adminInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,max=200"`
	Password string `json:"password" binding:"required,min=8"`
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative tasks",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an administrator account",
	Long: `Create a user holding the admin role. Unlike the ADMIN_EMAIL bootstrap
this runs even when other users already exist.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFrom(configFile)
		if err != nil {
			return err
		}
		logger.Init(cfg.Log.Format, cfg.Log.Level)

		validation.Register(cfg.Mail.AllowedDomain)
		if err := validation.Struct(&adminInput{Email: adminEmail, Name: adminName, Password: adminPassword}); err != nil {
			for _, fe := range validation.Describe(err) {
				fmt.Fprintf(cmd.ErrOrStderr(), "--%s: %s\n", fe.Field, fe.Message)
			}
			return errors.New("invalid admin account")
		}

		database, err := server.Open(cfg)
		if err != nil {
			return err
		}

		user, err := db.CreateAdmin(cmd.Context(), database, auth.NewHasher(cfg.Auth.BcryptCost), adminName, adminEmail, adminPassword)
		if err != nil {
			if errors.Is(err, db.ErrAdminExists) {
				return fmt.Errorf("%s is already registered", adminEmail)
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Admin %s created with id %d\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email (required)")
	adminCreateCmd.Flags().StringVar(&adminName, "name", "Administrador", "Admin full name")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password (required)")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("password")

	adminCmd.AddCommand(adminCreateCmd)
}
