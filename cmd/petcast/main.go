package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"petcast-web/internal/app"
	"petcast-web/internal/config"
	"petcast-web/internal/session"

	"github.com/spf13/cobra"
)

// @title petcast-web
// @version 1.0
// @description Cliente web de la clínica veterinaria: vistas por rol sobre los servicios user, pet, appointment y statistics.
// @BasePath /

var envFile string

func main() {
	Execute()
}

// Execute corre el comando raíz.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "petcast",
	Short:         "cliente web de la clínica veterinaria",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "archivo .env a leer antes del entorno")

	loginCmd.Flags().StringP("email", "e", "", "email del usuario")
	loginCmd.Flags().StringP("password", "p", "", "contraseña (por defecto PETCAST_PASSWORD)")
	_ = loginCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(serveCmd, loginCmd, logoutCmd, whoamiCmd, versionCmd)
}

// open carga la config y arma la app. Los subcomandos de sesión comparten el
// storage con el server, así un login por CLI sirve también para la web.
func open(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadWithDotEnv(envFile)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, app.Options{})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "levanta el server HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := open(ctx)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())
		return a.Run(ctx)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "inicia sesión y guarda los tokens",
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("PETCAST_PASSWORD")
		}
		if strings.TrimSpace(password) == "" {
			return errors.New("falta la contraseña: usa --password o PETCAST_PASSWORD")
		}

		ctx := cmd.Context()
		a, err := open(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		s, err := a.Session.Login(session.WithRoute(ctx, session.LoginPath), session.Credentials{Email: email, Password: password})
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sesión iniciada como %s (%s), inicio en %s\n", s.DisplayName, s.Role, s.Role.DefaultPath())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "cierra la sesión guardada",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := open(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		if err := a.Session.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "sesión cerrada")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "muestra la sesión guardada",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := open(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		s, ok := a.Session.Current()
		if !ok {
			return errors.New("no hay sesión: usa petcast login")
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"session": s,
			"home":    s.Role.DefaultPath(),
			"tabs":    s.Role.Tabs(),
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "imprime la versión",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), app.Version)
	},
}
