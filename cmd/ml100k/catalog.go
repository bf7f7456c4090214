package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"ml100k/internal/catalog"
	"ml100k/internal/ddl"
	"ml100k/internal/storage/mssql"
	"ml100k/internal/storage/mysql"
	"ml100k/internal/storage/postgres"
	"ml100k/internal/storage/sqlite"

	"github.com/spf13/cobra"
)

// createTable renders CREATE TABLE per store kind.
var createTable = map[string]func(ddl.TableDef) (string, error){
	"mssql":    mssql.BuildCreateTableSQL,
	"mysql":    mysql.BuildCreateTableSQL,
	"postgres": postgres.BuildCreateTableSQL,
	"sqlite":   sqlite.BuildCreateTableSQL,
}

func newCatalogCmd(f *flags) *cobra.Command {
	var dialect string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the source file layout and the target table DDL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dialect == "" {
				cfg, err := f.load(cmd)
				if err != nil {
					return err
				}
				dialect = cfg.Store.Kind
			}
			build, ok := createTable[dialect]
			if !ok {
				return fmt.Errorf("catalog: unsupported dialect %q", dialect)
			}

			out := cmd.OutOrStdout()
			if err := printSources(out); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n-- %s\n", dialect)
			for _, t := range ddl.Tables() {
				q, err := build(t)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, q)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dialect, "dialect", "", "DDL dialect (defaults to store.kind)")
	return cmd
}

func printSources(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tDELIM\tENCODING\tCOLUMNS")
	for _, s := range catalog.All() {
		delim := string(s.Delimiter)
		if s.Delimiter == '\t' {
			delim = `\t`
		}
		cols := s.ColumnNames()
		if s.File == catalog.Items.File {
			cols = append(cols[:catalog.ItemFixedColumns:catalog.ItemFixedColumns],
				fmt.Sprintf("genre_0..genre_%d", catalog.GenreFlagCount-1))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.File, delim, s.Encoding, strings.Join(cols, ", "))
	}
	return tw.Flush()
}
