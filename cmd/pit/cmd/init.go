/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/pitkit/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a pitkit configuration file",
	Long: `Create a configuration file with default settings and a freshly
generated API key for the HTTP server.

Examples:
  pit init
  pit init --config=./pitkit.yaml --data-dir=/var/lib/pitkit --print-key`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationCreatesConfig: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		printKey, _ := cmd.Flags().GetBool("print-key")

		path := configPath()
		cfg, err := bootstrapConfig(path, appConfig.DataDir, force)
		if err != nil {
			return err
		}

		cmd.Printf("✅ Configuration created at %s\n", path)
		cmd.Printf("📁 Data directory: %s\n", cfg.DataDir)
		if printKey {
			cmd.Printf("\n🔑 API Key: %s\n", cfg.Server.APIKey)
			cmd.Printf("\n⚠️  Store this key securely! It is also saved in %s\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
	initCmd.Flags().Bool("print-key", false, "Print the generated API key to the console")
}

// bootstrapConfig writes a new config at path unless one exists and force is unset
func bootstrapConfig(path, dataDir string, force bool) (*config.Config, error) {
	if config.ConfigExists(path) && !force {
		return nil, fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}
	return config.BootstrapConfig(path, dataDir)
}
