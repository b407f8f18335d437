package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scienceol/tracerx/cmd/api"
	"github.com/scienceol/tracerx/cmd/client"
	"github.com/scienceol/tracerx/internal/config"
	"github.com/scienceol/tracerx/pkg/middleware/logger"
	"github.com/scienceol/tracerx/pkg/utils"
)

//	@title			tracerx API
//	@version		0.0.1
//	@description	Laboratory sample tracking service.
//	@BasePath		/api
func main() {
	rootCtx := utils.SetupSignalContext()
	root := &cobra.Command{
		SilenceUsage:       true,
		Short:              "tracerx",
		Long:               "tracerx - laboratory sample tracking service",
		PersistentPreRunE:  initGlobalResource,
		PersistentPostRunE: cleanGlobalResource,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	root.SetContext(rootCtx)
	root.AddCommand(api.NewWeb())
	root.AddCommand(api.NewMigrate())
	root.AddCommand(client.NewBarcode())
	root.AddCommand(client.NewPush())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func initGlobalResource(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found - using environment variables")
	}

	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.AutomaticEnv()

	conf := config.Global()
	if err := v.Unmarshal(conf); err != nil {
		log.Fatal(err)
	}

	logger.Init(&logger.LogConfig{
		Path:     conf.Log.LogPath,
		LogLevel: conf.Log.LogLevel,
		ServiceEnv: logger.ServiceEnv{
			Platform: conf.Server.Platform,
			Service:  conf.Server.Service,
			Env:      conf.Server.Env,
		},
	})
	return nil
}

func cleanGlobalResource(_ *cobra.Command, _ []string) error {
	logger.Close()
	return nil
}
