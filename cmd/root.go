package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "0.3.1"
)

var rootCmd = &cobra.Command{
	Use:   "seedling",
	Short: "Seed explicit-keyed fixture data into PostgreSQL",
	Long: `Seedling loads fixture files with explicit primary keys into PostgreSQL
tables that use identity columns.

For each fixture it temporarily drops identity generation on the id column,
bulk-inserts the records, restores GENERATED ALWAYS identity and resyncs the
backing sequence to max(id), so later inserts without an id continue at
max(id)+1 without collisions.

Fixture files are named like 001-regions.fixture.yaml; the numeric prefix
sets the insertion order so referenced tables load before their dependents.`,
	Version: Version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./seedling.config.json)")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("seedling.config")
	}

	viper.AutomaticEnv()

	viper.ReadInConfig()
}
