package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"GENBA-backend/internal/platform/auth"
	"GENBA-backend/internal/platform/db"
)

var (
	acctID   string
	acctRole string
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "管理者アカウントの操作",
}

// 最初の admin は API から作れないのでここで作る
var accountAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "管理者アカウントを追加（パスワードは GENBA_PASSWORD から）",
	Example: `  GENBA_PASSWORD=... genbactl account add --id boss --role admin`,
	RunE:    runAccountAdd,
}

var accountDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "管理者アカウントを無効化",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openAuth(cfgPath)
		if err != nil {
			return err
		}
		defer done()
		if err := svc.SetDisabled(cmd.Context(), args[0], true); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "disabled %s\n", args[0])
		return nil
	},
}

func init() {
	accountAddCmd.Flags().StringVar(&acctID, "id", "", "account id")
	accountAddCmd.Flags().StringVar(&acctRole, "role", auth.RoleManager, "manager | admin")
	_ = accountAddCmd.MarkFlagRequired("id")

	accountCmd.AddCommand(accountAddCmd, accountDisableCmd)
	rootCmd.AddCommand(accountCmd)
}

var openAuth = func(path string) (auth.AuthService, func(), error) {
	cfg, err := db.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	conn, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return auth.NewService(conn, []byte(cfg.Auth.JWTSecret)), closer(conn), nil
}

func runAccountAdd(cmd *cobra.Command, _ []string) error {
	pw := os.Getenv("GENBA_PASSWORD")
	if len(pw) < 8 {
		return errors.New("GENBA_PASSWORD must be set (8 characters or more)")
	}
	svc, done, err := openAuth(cfgPath)
	if err != nil {
		return err
	}
	defer done()

	if err := svc.Register(cmd.Context(), acctID, pw, acctRole); err != nil {
		return fmt.Errorf("failed to add %s: %w", acctID, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", acctID, acctRole)
	return nil
}
