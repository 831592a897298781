package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc/metadata"

	"github.com/emrgen/pagebuilder"
	"github.com/emrgen/pagebuilder/internal/module"
	"github.com/emrgen/pagebuilder/internal/service"
)

const (
	configDir      = "./.tmp"
	configFileName = "pagebuilder"
)

var contextCommand = &cobra.Command{
	Use:   "context",
	Short: "context commands",
}

func init() {
	contextCommand.AddCommand(setContextCommand())
	contextCommand.AddCommand(currentContextCommand())
	contextCommand.AddCommand(resetContextCommand())
}

// Context is the connection info saved between cli calls.
type Context struct {
	Addr  string `mapstructure:"addr"`
	Token string `mapstructure:"token"`
	Actor string `mapstructure:"actor"`
}

// saves the context info to the config file in ./.tmp
func setContextCommand() *cobra.Command {
	var next Context
	command := &cobra.Command{
		Use:   "set",
		Short: "set context",
		Run: func(cmd *cobra.Command, args []string) {
			if next.Addr == "" && next.Token == "" && next.Actor == "" {
				color.Red(`missing: --addr, --token or --actor`)
				return
			}

			current := readContext()
			if cmd.Flag("addr").Changed {
				current.Addr = next.Addr
			}
			if cmd.Flag("token").Changed {
				current.Token = next.Token
			}
			if cmd.Flag("actor").Changed {
				current.Actor = next.Actor
			}

			if err := writeContext(current); err != nil {
				fmt.Println("error writing config file: ", err)
			} else {
				fmt.Println("context saved")
			}
		},
	}

	command.Flags().StringVarP(&next.Addr, "addr", "a", "", "grpc address of the server")
	command.Flags().StringVarP(&next.Token, "token", "t", "", "bearer token")
	command.Flags().StringVarP(&next.Actor, "actor", "u", "", "name recorded on saved versions")

	return command
}

func currentContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "current",
		Short: "current context",
		Run: func(cmd *cobra.Command, args []string) {
			current := readContext()
			addr := current.Addr
			if addr == "" {
				addr = pagebuilder.DefaultAddr + " (default)"
			}
			token := "<none>"
			if current.Token != "" {
				token = "<set>"
			}

			printField("Addr", addr)
			printField("Token", token)
			printField("Actor", current.Actor)
		},
	}

	return command
}

func resetContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "reset",
		Short: "reset context",
		Run: func(cmd *cobra.Command, args []string) {
			err := os.Remove(configPath())
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				fmt.Println("error removing config file: ", err)
				return
			}
			fmt.Println("context reset")
		},
	}

	return command
}

func configPath() string {
	return filepath.Join(configDir, configFileName+".yml")
}

func contextViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.AddConfigPath(configDir)
	v.SetConfigType("yml")

	return v
}

func writeContext(c Context) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	v := contextViper()
	v.Set("context.addr", c.Addr)
	v.Set("context.token", c.Token)
	v.Set("context.actor", c.Actor)

	return v.WriteConfigAs(configPath())
}

func readContext() Context {
	var c Context

	if _, err := os.Stat(configPath()); errors.Is(err, os.ErrNotExist) {
		return c
	}

	v := contextViper()
	if err := v.ReadInConfig(); err != nil {
		fmt.Println("error reading config file: ", err)
		return c
	}

	if err := v.UnmarshalKey("context", &c); err != nil {
		fmt.Println("error unmarshalling config file: ", err)
	}

	return c
}

// tokenContext returns a context carrying the saved token and actor.
func tokenContext() context.Context {
	current := readContext()

	ctx := module.WithBearerToken(context.Background(), current.Token)
	if current.Actor != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, service.ActorHeader, current.Actor)
	}

	return ctx
}

// newClient connects to the server named by the saved context.
func newClient() (pagebuilder.Client, error) {
	return pagebuilder.NewClient(readContext().Addr)
}

// withClient runs call against the server of the saved context and logs the failure, if any.
func withClient(call func(ctx context.Context, client pagebuilder.Client) error) {
	client, err := newClient()
	if err != nil {
		logrus.Error(err)
		return
	}
	defer client.Close()

	if err := call(tokenContext(), client); err != nil {
		logrus.Error(err)
	}
}
