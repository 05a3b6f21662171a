package cmd

import (
	"fmt"

	"github.com/foodgram-api/config"
	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/services"
	"github.com/foodgram-api/utils"
	"github.com/foodgram-api/validation"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var superuser dto.RegisterRequest

var createSuperuserCmd = &cobra.Command{
	Use:   "create-superuser",
	Short: "Create a staff account",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := superuser
		generated := req.Password == ""
		if generated {
			password, err := utils.GenerateSecurePassword(16)
			if err != nil {
				return err
			}
			req.Password = password
		}
		if req.FirstName == "" {
			req.FirstName = req.Username
		}
		if req.LastName == "" {
			req.LastName = req.Username
		}
		if err := validation.Struct(&req); err != nil {
			return err
		}

		return withDB(cmd.Context(), func(cfg config.Config, db *gorm.DB) error {
			svc := services.New(db, services.Options{JWTSecret: cfg.JWTSecret, JWTTTL: cfg.JWTTTL}, nil)
			user, err := svc.Auth.CreateSuperuser(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created superuser %s (id %d)\n", user.Email, user.ID)
			if generated {
				fmt.Fprintf(cmd.OutOrStdout(), "Generated password: %s\n", req.Password)
			}
			return nil
		})
	},
}

func init() {
	flags := createSuperuserCmd.Flags()
	flags.StringVar(&superuser.Email, "email", "", "Email address (required)")
	flags.StringVar(&superuser.Username, "username", "", "Username (required)")
	flags.StringVar(&superuser.Password, "password", "", "Password, at least 8 characters (generated when empty)")
	flags.StringVar(&superuser.FirstName, "first-name", "", "First name (default username)")
	flags.StringVar(&superuser.LastName, "last-name", "", "Last name (default username)")
	_ = createSuperuserCmd.MarkFlagRequired("email")
	_ = createSuperuserCmd.MarkFlagRequired("username")
	rootCmd.AddCommand(createSuperuserCmd)
}
