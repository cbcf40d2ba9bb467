package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/kangaroo/internal/tablestore"
	"github.com/mahdiidarabi/kangaroo/pkg/tablefile"
)

func registerGenerate(rootCmd *cobra.Command, opts *paramOptions) {
	var outPath string
	var storePath string
	var format string

	var cmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate a jump table and precomputed table",
		Long:  "Run tame walks until the table holds n distinguished points, then save it to a file and/or the table store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptible(0)
			defer cancel()

			k, err := generate(ctx, opts)
			if err != nil {
				return err
			}
			rec, err := tablefile.FromKangaroo(k)
			if err != nil {
				return err
			}

			if outPath == "" && storePath == "" {
				outPath = tablefile.FileName(opts.curve, opts.params, tablefile.Format(format))
			}
			if outPath != "" {
				if err := tablefile.Save(outPath, rec); err != nil {
					return err
				}
				log.Info().Str("path", outPath).Str("fingerprint", rec.Fingerprint).Msg("Table written")
			}
			if storePath != "" {
				store, err := tablestore.Open(storePath, log.Logger)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.Put(ctx, rec); err != nil {
					return err
				}
				log.Info().Str("store", storePath).Str("fingerprint", rec.Fingerprint).Msg("Table stored")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Output file (.json or .cbor); defaults to <curve>_<w>_<n>_<secretSize>_<r>.<format>")
	cmd.Flags().StringVar(&storePath, "store", "", "SQLite table store to save the table into")
	cmd.Flags().StringVar(&format, "format", string(tablefile.FormatJSON), "Format for the default output name (json or cbor)")
	rootCmd.AddCommand(cmd)
}
