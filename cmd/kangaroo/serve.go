package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/kangaroo/internal/server"
	"github.com/mahdiidarabi/kangaroo/internal/tablestore"
)

func registerServe(rootCmd *cobra.Command) {
	var addr string
	var dbPath string
	config := server.DefaultConfig()

	var cmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the table server",
		Long:  "Serve stored tables over HTTP, accept uploaded tables and append benchmark logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := tablestore.Open(dbPath, log.Logger)
			if err != nil {
				return err
			}
			defer store.Close()

			srv, err := server.New(store, config, log.Logger)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":3001", "Listen address")
	cmd.Flags().StringVar(&dbPath, "db", "tables.db", "SQLite table store")
	cmd.Flags().StringVar(&config.LogDir, "logs", config.LogDir, "Directory for POST /log files")
	cmd.Flags().IntVar(&config.CacheSize, "cache", config.CacheSize, "Number of encoded tables kept in memory")
	rootCmd.AddCommand(cmd)
}
