package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/kangaroo/internal/secrets"
)

const defaultSecretsSize = 48
const defaultSecretsAmount = 10
const defaultSecretsPath = "secrets.bin"

func registerSecrets(rootCmd *cobra.Command) {
	var size int
	var amount int
	var path string

	var cmd = &cobra.Command{
		Use:   "secrets",
		Short: "Generate a binary secrets file for bench",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Info().Int("amount", amount).Int("size", size).Str("path", path).Msg("Generating secrets")
			values, err := secrets.Generate(size, amount)
			if err != nil {
				return err
			}
			if err := secrets.WriteFile(path, values); err != nil {
				return err
			}
			log.Info().Int("amount", amount).Str("path", path).Msg("Secrets written")
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", defaultSecretsSize, "Secret size in bits")
	cmd.Flags().IntVar(&amount, "amount", defaultSecretsAmount, "Number of secrets")
	cmd.Flags().StringVar(&path, "path", defaultSecretsPath, "Output path (must end in .bin)")
	rootCmd.AddCommand(cmd)
}
